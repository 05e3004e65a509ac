package config

import (
	"fmt"

	"reconciler/core/reconcile"

	"github.com/spf13/viper"
)

type rulesetFile struct {
	Name     string      `mapstructure:"name"`
	MatchKey string      `mapstructure:"match_key"`
	Fields   []fieldFile `mapstructure:"fields"`
}

type fieldFile struct {
	Name     string `mapstructure:"name"`
	DataType string `mapstructure:"data_type"`
	Required bool   `mapstructure:"required"`
}

// LoadRuleset reads a ruleset from a JSON, YAML or TOML file, picked by extension.
//
//	name: payments
//	match_key: id
//	fields:
//	  - {name: id, data_type: string, required: true}
//	  - {name: amount, data_type: float}
func LoadRuleset(path string) (*reconcile.Schema, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read ruleset %s: %w", path, err)
	}

	var file rulesetFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to decode ruleset %s: %w", path, err)
	}
	if file.MatchKey == "" {
		return nil, fmt.Errorf("ruleset %s: match_key is required", path)
	}

	schema := &reconcile.Schema{Name: file.Name, MatchKey: file.MatchKey}
	seen := make(map[string]struct{}, len(file.Fields))
	for i, f := range file.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("ruleset %s: field %d has no name", path, i+1)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("ruleset %s: duplicate field %q", path, f.Name)
		}
		seen[f.Name] = struct{}{}

		typ := reconcile.FieldString
		if f.DataType != "" {
			parsed, err := reconcile.ParseFieldType(f.DataType)
			if err != nil {
				return nil, fmt.Errorf("ruleset %s: field %q: %w", path, f.Name, err)
			}
			typ = parsed
		}
		schema.Fields = append(schema.Fields, reconcile.FieldDefinition{Name: f.Name, Type: typ, Required: f.Required})
	}
	return schema, nil
}
