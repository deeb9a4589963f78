/*
 *     Copyright 2023 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/waterlab/potability/pkg/types"
)

type Config struct {
	// Base options.
	BaseOptions `yaml:",inline" mapstructure:",squash"`

	// Data configuration.
	Data DataConfig `yaml:"data" mapstructure:"data"`

	// Split configuration.
	Split SplitConfig `yaml:"split" mapstructure:"split"`

	// Trainer configuration.
	Trainer TrainerConfig `yaml:"trainer" mapstructure:"trainer"`

	// Evaluation configuration.
	Evaluation EvaluationConfig `yaml:"evaluation" mapstructure:"evaluation"`

	// Predict configuration.
	Predict PredictConfig `yaml:"predict" mapstructure:"predict"`

	// Output configuration.
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

type BaseOptions struct {
	// Console shows log on console.
	Console bool `yaml:"console" mapstructure:"console"`

	// Verbose prints debug log.
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`

	// Log directory, used when console is disabled.
	LogDir string `yaml:"logDir" mapstructure:"logDir"`

	// Maximum size in megabytes of log files before rotation (default: 1024)
	LogMaxSize int `yaml:"logMaxSize" mapstructure:"logMaxSize"`

	// Maximum number of days to retain old log files (default: 7)
	LogMaxAge int `yaml:"logMaxAge" mapstructure:"logMaxAge"`

	// Maximum number of old log files to keep (default: 20)
	LogMaxBackups int `yaml:"logMaxBackups" mapstructure:"logMaxBackups"`
}

type DataConfig struct {
	// Path is path of the dataset file.
	Path string `yaml:"path" mapstructure:"path"`

	// Separator is field separator, must be a single character.
	Separator string `yaml:"separator" mapstructure:"separator"`

	// HasHeader indicates the first row is a header.
	HasHeader bool `yaml:"hasHeader" mapstructure:"hasHeader"`

	// MissingValue is policy of missing measurements, drop or mean.
	MissingValue string `yaml:"missingValue" mapstructure:"missingValue"`
}

type SplitConfig struct {
	// TestFraction is fraction of samples held out for evaluation.
	TestFraction float64 `yaml:"testFraction" mapstructure:"testFraction"`

	// Seed makes the split reproducible, nil means a random split.
	Seed *int64 `yaml:"seed" mapstructure:"seed"`
}

type TrainerConfig struct {
	// NumberOfLeaves is maximum number of leaves per tree.
	NumberOfLeaves int `yaml:"numberOfLeaves" mapstructure:"numberOfLeaves"`

	// MinimumExampleCountPerLeaf is minimum number of examples in a leaf.
	MinimumExampleCountPerLeaf int `yaml:"minimumExampleCountPerLeaf" mapstructure:"minimumExampleCountPerLeaf"`

	// LearningRate is shrinkage applied to every tree.
	LearningRate float64 `yaml:"learningRate" mapstructure:"learningRate"`

	// NumberOfTrees is number of boosting rounds.
	NumberOfTrees int `yaml:"numberOfTrees" mapstructure:"numberOfTrees"`

	// ShowProgress renders a progress bar on stderr while boosting.
	ShowProgress bool `yaml:"showProgress" mapstructure:"showProgress"`
}

type EvaluationConfig struct {
	// AccuracyThreshold is the accuracy the model is acceptable at.
	AccuracyThreshold float64 `yaml:"accuracyThreshold" mapstructure:"accuracyThreshold"`
}

type PredictConfig struct {
	// Sample maps field name to measurement of the sample to predict.
	Sample map[string]string `yaml:"sample" mapstructure:"sample"`
}

type OutputConfig struct {
	// Report is path of the yaml report, empty disables it.
	Report string `yaml:"report" mapstructure:"report"`

	// MetricsFile is path of the prometheus textfile, empty disables it.
	MetricsFile string `yaml:"metricsFile" mapstructure:"metricsFile"`

	// Wait blocks for a line on stdin before exit.
	Wait bool `yaml:"wait" mapstructure:"wait"`
}

// New default configuration.
func New() *Config {
	return &Config{
		BaseOptions: BaseOptions{
			Console:       true,
			LogMaxSize:    DefaultLogRotateMaxSize,
			LogMaxAge:     DefaultLogRotateMaxAge,
			LogMaxBackups: DefaultLogRotateMaxBackups,
		},
		Data: DataConfig{
			Separator:    DefaultSeparator,
			HasHeader:    DefaultHasHeader,
			MissingValue: DefaultMissingValue,
		},
		Split: SplitConfig{
			TestFraction: DefaultTestFraction,
		},
		Trainer: TrainerConfig{
			NumberOfLeaves:             DefaultNumberOfLeaves,
			MinimumExampleCountPerLeaf: DefaultMinimumExampleCountPerLeaf,
			LearningRate:               DefaultLearningRate,
			NumberOfTrees:              DefaultNumberOfTrees,
		},
		Evaluation: EvaluationConfig{
			AccuracyThreshold: DefaultAccuracyThreshold,
		},
		Output: OutputConfig{
			Wait: true,
		},
	}
}

// Validate config parameters.
func (cfg *Config) Validate() error {
	if cfg.Data.Path == "" {
		return errors.New("data requires parameter path")
	}

	if utf8.RuneCountInString(cfg.Data.Separator) != 1 {
		return errors.New("data requires parameter separator")
	}

	if cfg.Data.MissingValue != MissingValueDrop && cfg.Data.MissingValue != MissingValueMean {
		return errors.New("data requires parameter missingValue")
	}

	if cfg.Split.TestFraction <= 0 || cfg.Split.TestFraction >= 1 {
		return errors.New("split requires parameter testFraction")
	}

	if cfg.Trainer.NumberOfLeaves < MinNumberOfLeaves || cfg.Trainer.NumberOfLeaves > MaxNumberOfLeaves {
		return errors.New("trainer requires parameter numberOfLeaves")
	}

	if cfg.Trainer.MinimumExampleCountPerLeaf < 1 || cfg.Trainer.MinimumExampleCountPerLeaf > MaxMinimumExampleCountPerLeaf {
		return errors.New("trainer requires parameter minimumExampleCountPerLeaf")
	}

	if cfg.Trainer.LearningRate <= 0 || cfg.Trainer.LearningRate > 1 {
		return errors.New("trainer requires parameter learningRate")
	}

	if cfg.Trainer.NumberOfTrees < 1 || cfg.Trainer.NumberOfTrees > MaxNumberOfTrees {
		return errors.New("trainer requires parameter numberOfTrees")
	}

	if cfg.Evaluation.AccuracyThreshold < 0 || cfg.Evaluation.AccuracyThreshold > 1 {
		return errors.New("evaluation requires parameter accuracyThreshold")
	}

	if !cfg.Console && cfg.LogDir == "" {
		return errors.New("file logging requires parameter logDir")
	}

	return nil
}

// Convert fills parameters derived from other parameters.
func (cfg *Config) Convert() error {
	if len(cfg.Predict.Sample) == 0 {
		cfg.Predict.Sample = make(map[string]string, len(DefaultSample))
		for k, v := range DefaultSample {
			cfg.Predict.Sample[k] = v
		}
	}

	if !cfg.Console && cfg.LogDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		cfg.LogDir = filepath.Join(home, "."+types.PotabilityName, "logs")
	}

	return nil
}

// SeparatorRune returns the separator as a rune, Validate guarantees a single rune.
func (cfg *DataConfig) SeparatorRune() rune {
	r, _ := utf8.DecodeRuneInString(cfg.Separator)
	return r
}
