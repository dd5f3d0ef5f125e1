package repository

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"EliteScan/internal/domain/models"
)

type universeFile struct {
	AssetClasses []models.AssetClass `yaml:"asset_classes"`
}

// YAMLUniverse loads the universe from a YAML file on every call so edits apply to the next scan.
type YAMLUniverse struct {
	path string
}

func NewYAMLUniverse(path string) *YAMLUniverse {
	return &YAMLUniverse{path: path}
}

func (u *YAMLUniverse) Load(_ context.Context) (models.Universe, error) {
	b, err := os.ReadFile(u.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Universe{}, fmt.Errorf("%w: universe file %s", models.ErrNoConfig, u.path)
		}
		return models.Universe{}, fmt.Errorf("read universe: %w", err)
	}
	return ParseUniverse(b)
}

// ParseUniverse decodes asset classes, trimming and upper-casing symbols.
func ParseUniverse(b []byte) (models.Universe, error) {
	var f universeFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return models.Universe{}, fmt.Errorf("parse universe: %w", err)
	}
	for i, c := range f.AssetClasses {
		if c.Name == "" {
			return models.Universe{}, fmt.Errorf("parse universe: asset class %d has no name", i)
		}
		if c.StopLoss <= 0 || c.StopLoss >= 1 || c.TakeProfit <= 0 {
			return models.Universe{}, fmt.Errorf("parse universe: asset class %s has invalid stop/target", c.Name)
		}
		for j, s := range c.Symbols {
			f.AssetClasses[i].Symbols[j] = strings.ToUpper(strings.TrimSpace(s))
		}
	}
	return models.NewUniverse(f.AssetClasses), nil
}
