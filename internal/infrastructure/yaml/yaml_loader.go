package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"service-admission/internal/domain"
)

// LoadFile decodes a YAML document at path into out.
func LoadFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func LoadRulePack(path string) (domain.RulePackDefinition, error) {
	var pack domain.RulePackDefinition
	if err := LoadFile(path, &pack); err != nil {
		return domain.RulePackDefinition{}, err
	}
	return pack, nil
}
