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

package training

import (
	"io"
	"os"

	"github.com/waterlab/potability/potability/config"
)

type TrainOptions struct {
	NumberOfLeaves             int
	MinimumExampleCountPerLeaf int
	LearningRate               float64
	NumberOfTrees              int
	ShowProgress               bool
	ProgressWriter             io.Writer
}

type TrainOptionFunc func(options *TrainOptions)

func WithNumberOfLeaves(NumberOfLeaves int) TrainOptionFunc {
	return func(options *TrainOptions) {
		options.NumberOfLeaves = NumberOfLeaves
	}
}

func WithMinimumExampleCountPerLeaf(MinimumExampleCountPerLeaf int) TrainOptionFunc {
	return func(options *TrainOptions) {
		options.MinimumExampleCountPerLeaf = MinimumExampleCountPerLeaf
	}
}

func WithLearningRate(LearningRate float64) TrainOptionFunc {
	return func(options *TrainOptions) {
		options.LearningRate = LearningRate
	}
}

func WithNumberOfTrees(NumberOfTrees int) TrainOptionFunc {
	return func(options *TrainOptions) {
		options.NumberOfTrees = NumberOfTrees
	}
}

func WithProgress(ShowProgress bool, ProgressWriter io.Writer) TrainOptionFunc {
	return func(options *TrainOptions) {
		options.ShowProgress = ShowProgress
		options.ProgressWriter = ProgressWriter
	}
}

func NewTrainOptions() *TrainOptions {
	return &TrainOptions{
		NumberOfLeaves:             config.DefaultNumberOfLeaves,
		MinimumExampleCountPerLeaf: config.DefaultMinimumExampleCountPerLeaf,
		LearningRate:               config.DefaultLearningRate,
		NumberOfTrees:              config.DefaultNumberOfTrees,
		ProgressWriter:             os.Stderr,
	}
}
