// Package gbdt implements least-squares gradient boosted regression trees.
package gbdt

import (
	"fmt"

	"github.com/pkg/errors"
)

// LossSquared least-squares loss, the only loss supported.
const LossSquared = "ls"

// Params training hyperparameters.
type Params struct {
	Verbose         int     `json:"verbose" yaml:"verbose"`
	MaxLevel        int     `json:"max_level" yaml:"max_level"`
	MaxLeafNumber   int     `json:"max_leaf_number" yaml:"max_leaf_number"`
	MinValuesInLeaf int     `json:"min_values_in_leaf" yaml:"min_values_in_leaf"`
	TreeNumber      int     `json:"tree_number" yaml:"tree_number"`
	LearningRate    float64 `json:"learning_rate" yaml:"learning_rate"`
	SampleRate      float64 `json:"sample_rate" yaml:"sample_rate"`
	Loss            string  `json:"loss" yaml:"loss"`
	Seed            int64   `json:"seed" yaml:"seed"`
}

// DefaultParams returns the hyperparameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		Verbose:         1,
		MaxLevel:        5,
		MaxLeafNumber:   20,
		MinValuesInLeaf: 10,
		TreeNumber:      1000,
		LearningRate:    0.1,
		SampleRate:      0.9,
		Loss:            LossSquared,
		Seed:            1,
	}
}

// Validate checks the parameters.
func (p Params) Validate() error {
	switch {
	case p.MaxLevel < 1:
		return fmt.Errorf("max_level must be at least 1, got %d", p.MaxLevel)
	case p.MaxLeafNumber < 2:
		return fmt.Errorf("max_leaf_number must be at least 2, got %d", p.MaxLeafNumber)
	case p.MinValuesInLeaf < 1:
		return fmt.Errorf("min_values_in_leaf must be at least 1, got %d", p.MinValuesInLeaf)
	case p.TreeNumber < 1:
		return fmt.Errorf("tree_number must be at least 1, got %d", p.TreeNumber)
	case p.LearningRate <= 0 || p.LearningRate > 1:
		return fmt.Errorf("learning_rate must be in (0, 1], got %g", p.LearningRate)
	case p.SampleRate <= 0 || p.SampleRate > 1:
		return fmt.Errorf("sample_rate must be in (0, 1], got %g", p.SampleRate)
	case p.Loss != LossSquared:
		return errors.Errorf("unsupported loss %q", p.Loss)
	}
	return nil
}
