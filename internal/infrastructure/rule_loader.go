package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"service-admission/internal/domain"
	"service-admission/internal/infrastructure/yaml"
	"service-admission/internal/interfaces"
)

// FileRuleLoader reads "<version>_rules.yaml" or "<version>_rules.json" from Dir.
type FileRuleLoader struct {
	Dir string
}

func NewFileRuleLoader(dir string) interfaces.RulePackLoader {
	return &FileRuleLoader{Dir: dir}
}

func (l *FileRuleLoader) Load(ctx context.Context, version string) (*domain.RulePackDefinition, error) {
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}

	yamlPath := filepath.Join(l.Dir, fmt.Sprintf("%s_rules.yaml", version))
	pack, err := yaml.LoadRulePack(yamlPath)
	if err == nil {
		return withVersion(pack, version), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	jsonPath := filepath.Join(l.Dir, fmt.Sprintf("%s_rules.json", version))
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file for %s in %s: %w", version, l.Dir, err)
	}

	var def domain.RulePackDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rule definition: %w", err)
	}
	return withVersion(def, version), nil
}

func withVersion(pack domain.RulePackDefinition, version string) *domain.RulePackDefinition {
	if pack.Version == "" {
		pack.Version = version
	}
	return &pack
}
