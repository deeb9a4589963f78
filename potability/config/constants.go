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

const (
	// DefaultSeparator is default field separator of dataset.
	DefaultSeparator = ","

	// DefaultHasHeader is default value of hasHeader.
	DefaultHasHeader = true

	// MissingValueDrop drops samples with missing measurements before split.
	MissingValueDrop = "drop"

	// MissingValueMean replaces missing measurements with the training mean.
	MissingValueMean = "mean"

	// DefaultMissingValue is default missing value policy.
	DefaultMissingValue = MissingValueDrop
)

const (
	// DefaultTestFraction is default fraction of test set.
	DefaultTestFraction = 0.2
)

const (
	// DefaultNumberOfLeaves is default maximum number of leaves per tree.
	DefaultNumberOfLeaves = 20

	// MinNumberOfLeaves is minimum number of leaves per tree.
	MinNumberOfLeaves = 2

	// MaxNumberOfLeaves is maximum number of leaves per tree.
	MaxNumberOfLeaves = 1024

	// DefaultMinimumExampleCountPerLeaf is default minimum examples of a leaf.
	DefaultMinimumExampleCountPerLeaf = 10

	// MaxMinimumExampleCountPerLeaf is maximum of minimumExampleCountPerLeaf.
	MaxMinimumExampleCountPerLeaf = 100000

	// DefaultLearningRate is default learning rate of boosting.
	DefaultLearningRate = 0.2

	// DefaultNumberOfTrees is default number of boosting rounds.
	DefaultNumberOfTrees = 100

	// MaxNumberOfTrees is maximum number of boosting rounds.
	MaxNumberOfTrees = 10000
)

const (
	// DefaultAccuracyThreshold is default accuracy the model is acceptable at.
	DefaultAccuracyThreshold = 0.7
)

const (
	// DefaultLogRotateMaxSize is default size in megabytes of log files before rotation.
	DefaultLogRotateMaxSize = 1024

	// DefaultLogRotateMaxAge is default days to retain old log files.
	DefaultLogRotateMaxAge = 7

	// DefaultLogRotateMaxBackups is default number of old log files to keep.
	DefaultLogRotateMaxBackups = 20
)

// DefaultSample is the sample predicted when none is configured.
var DefaultSample = map[string]string{
	"pH":              "7.0",
	"Hardness":        "200.0",
	"Solids":          "15000.0",
	"Chloramines":     "8.0",
	"Sulfate":         "350.0",
	"Conductivity":    "400.0",
	"Organic_carbon":  "10.0",
	"Trihalomethanes": "3.0",
	"Turbidity":       "2.0",
}
