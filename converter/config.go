package converter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// LoadOptionFile reads conversion options from a YAML file.
func LoadOptionFile(path string) (*FBXToUSDOption, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load option file: %w", err)
	}
	var options FBXToUSDOption
	if err := yaml.Unmarshal(data, &options); err != nil {
		return nil, fmt.Errorf("load option file %s: %w", path, err)
	}
	return &options, nil
}
