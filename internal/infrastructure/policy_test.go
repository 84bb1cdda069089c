package infrastructure_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-admission/internal/domain"
	"service-admission/internal/domain/engine"
	"service-admission/internal/infrastructure"
)

var ctx = context.Background()

func loadPolicy(t *testing.T, dir, version string) *infrastructure.JsonLogicPolicy {
	t.Helper()
	pack, err := infrastructure.NewFileRuleLoader(dir).Load(context.Background(), version)
	require.NoError(t, err)
	policy, err := infrastructure.NewJsonLogicPolicy(*pack, infrastructure.NewJsonLogicExecutor(), zerolog.Nop())
	require.NoError(t, err)
	return policy
}

func TestBundledRulePackMatchesDefaultPolicy(t *testing.T) {
	policy := loadPolicy(t, filepath.Join("..", "..", "rules"), "1")
	assert.Equal(t, "v1", policy.Version())

	var builtin engine.DefaultPolicy
	for _, year := range []int{2020, 2023} {
		day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		for day.Year() == year {
			require.Equal(t, builtin.IsDiscountDay(ctx, day), policy.IsDiscountDay(ctx, day), day.Format(time.DateOnly))
			day = day.AddDate(0, 0, 1)
		}
	}

	for _, total := range []domain.Price{0, 4999, 5000, 5001, 100000} {
		assert.Equal(t, builtin.ReceiptQualifies(ctx, total), policy.ReceiptQualifies(ctx, total), "total %d", total)
	}
}

func TestJSONRulePackOverridesPredicates(t *testing.T) {
	dir := t.TempDir()
	pack := `{
		"rules": [
			{"id": "discount_day", "logic": {"==": [{"var": "weekday"}, 1]}},
			{"id": "receipt_eligible", "logic": {">=": [{"var": "totalPayment"}, 3000]}}
		]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v2_rules.json"), []byte(pack), 0o644))

	policy := loadPolicy(t, dir, "v2")
	assert.Equal(t, "v2", policy.Version())
	assert.True(t, policy.IsDiscountDay(ctx, time.Date(2020, time.February, 3, 0, 0, 0, 0, time.UTC)))
	assert.False(t, policy.IsDiscountDay(ctx, time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, policy.ReceiptQualifies(ctx, 3000))
	assert.False(t, policy.ReceiptQualifies(ctx, 2999))
}

func TestMissingRulesFallBack(t *testing.T) {
	policy, err := infrastructure.NewJsonLogicPolicy(domain.RulePackDefinition{Version: "empty"}, infrastructure.NewJsonLogicExecutor(), zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, policy.IsDiscountDay(ctx, time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, policy.ReceiptQualifies(ctx, 5000))
}

func TestNonBooleanRuleIsRejected(t *testing.T) {
	pack := domain.RulePackDefinition{
		Version: "bad",
		Rules: []domain.RuleConfig{
			{ID: infrastructure.RuleReceiptEligible, Logic: map[string]any{"+": []any{1, 2}}},
		},
	}
	_, err := infrastructure.NewJsonLogicPolicy(pack, infrastructure.NewJsonLogicExecutor(), zerolog.Nop())
	require.ErrorIs(t, err, domain.ErrRuleExecutionFailed)
}

func TestRuleLoaderMissingVersion(t *testing.T) {
	_, err := infrastructure.NewFileRuleLoader(t.TempDir()).Load(context.Background(), "v9")
	require.Error(t, err)
}
