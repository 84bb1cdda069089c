package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/diegoholiveira/jsonlogic/v3"

	"service-admission/internal/domain"
)

type JsonLogicExecutor struct{}

func NewJsonLogicExecutor() *JsonLogicExecutor {
	return &JsonLogicExecutor{}
}

// Execute applies a JsonLogic rule to the given variables and decodes the result.
func (j *JsonLogicExecutor) Execute(ctx context.Context, ruleData map[string]any, contextVars map[string]any) (any, error) {
	ruleJSON, err := json.Marshal(ruleData)
	if err != nil {
		return nil, fmt.Errorf("%w: encode rule: %v", domain.ErrRuleExecutionFailed, err)
	}
	dataJSON, err := json.Marshal(contextVars)
	if err != nil {
		return nil, fmt.Errorf("%w: encode data: %v", domain.ErrRuleExecutionFailed, err)
	}

	var resultBuffer bytes.Buffer
	if err := jsonlogic.Apply(bytes.NewReader(ruleJSON), bytes.NewReader(dataJSON), &resultBuffer); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRuleExecutionFailed, err)
	}

	resultStr := strings.TrimSpace(resultBuffer.String())
	if resultStr == "" || resultStr == "null" {
		return nil, nil
	}

	var res any
	if err := json.Unmarshal([]byte(resultStr), &res); err != nil {
		return nil, fmt.Errorf("%w: decode result: %v", domain.ErrRuleExecutionFailed, err)
	}
	return res, nil
}

// ExecuteBool runs a predicate rule. Non-boolean results are an error.
func (j *JsonLogicExecutor) ExecuteBool(ctx context.Context, ruleData map[string]any, contextVars map[string]any) (bool, error) {
	out, err := j.Execute(ctx, ruleData, contextVars)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%w: predicate returned %T", domain.ErrRuleExecutionFailed, out)
	}
	return b, nil
}
