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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waterlab/potability/internal/wqerrors"
	"github.com/waterlab/potability/potability/config"
	"github.com/waterlab/potability/potability/storage"
)

func TestTrainer_New(t *testing.T) {
	tests := []struct {
		name    string
		options []TrainOptionFunc
		expect  func(t *testing.T, options TrainOptions)
	}{
		{
			name: "default options",
			expect: func(t *testing.T, options TrainOptions) {
				assert := assert.New(t)
				assert.Equal(config.DefaultNumberOfLeaves, options.NumberOfLeaves)
				assert.Equal(config.DefaultMinimumExampleCountPerLeaf, options.MinimumExampleCountPerLeaf)
				assert.Equal(config.DefaultLearningRate, options.LearningRate)
				assert.Equal(config.DefaultNumberOfTrees, options.NumberOfTrees)
				assert.False(options.ShowProgress)
			},
		},
		{
			name: "custom options",
			options: []TrainOptionFunc{
				WithNumberOfLeaves(8),
				WithMinimumExampleCountPerLeaf(2),
				WithLearningRate(0.5),
				WithNumberOfTrees(3),
				WithProgress(true, &bytes.Buffer{}),
			},
			expect: func(t *testing.T, options TrainOptions) {
				assert := assert.New(t)
				assert.Equal(8, options.NumberOfLeaves)
				assert.Equal(2, options.MinimumExampleCountPerLeaf)
				assert.Equal(0.5, options.LearningRate)
				assert.Equal(3, options.NumberOfTrees)
				assert.True(options.ShowProgress)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.expect(t, NewTrainer(NewFeaturePipeline(MinMaxScaler{}), tc.options...).Options())
		})
	}
}

func TestTrainer_Train(t *testing.T) {
	tests := []struct {
		name    string
		trainer *Trainer
		samples []storage.WaterSample
		expect  func(t *testing.T, model *Model, err error)
	}{
		{
			name:    "train on separable samples",
			trainer: mockTrainer(),
			samples: mockSeparableSamples(),
			expect: func(t *testing.T, model *Model, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.True(model.Booster().Fitted)
				assert.Len(model.Booster().Trees, 20)
				assert.Len(model.Pipeline().Params(), 1)

				probabilities, err := model.Probabilities(mockSeparableSamples())
				assert.NoError(err)
				for i, sample := range mockSeparableSamples() {
					assert.Equal(sample.Potability, probabilities[i] >= 0.5)
				}
			},
		},
		{
			name:    "default minimum examples per leaf prevents any split",
			trainer: NewTrainer(NewFeaturePipeline(MinMaxScaler{}), WithNumberOfTrees(3)),
			samples: mockSeparableSamples(),
			expect: func(t *testing.T, model *Model, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				for _, tree := range model.Booster().Trees {
					assert.Equal(1, tree.Leaves())
				}
			},
		},
		{
			name:    "single class training set",
			trainer: mockTrainer(),
			samples: []storage.WaterSample{
				mockSample(6.8, true),
				mockSample(7.0, true),
				mockSample(7.2, true),
			},
			expect: func(t *testing.T, model *Model, err error) {
				assert := assert.New(t)
				assert.True(wqerrors.CheckError(err, wqerrors.CodeTraining))
				assert.ErrorIs(err, wqerrors.ErrSingleClass)
				assert.Nil(model)
			},
		},
		{
			name:    "empty training set",
			trainer: mockTrainer(),
			samples: nil,
			expect: func(t *testing.T, model *Model, err error) {
				assert := assert.New(t)
				assert.True(wqerrors.CheckError(err, wqerrors.CodeTraining))
				assert.ErrorIs(err, wqerrors.ErrEmptyDataset)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			model, err := tc.trainer.Train(NewSession(&mockSeed), tc.samples)
			tc.expect(t, model, err)
		})
	}
}

func TestTrainer_Progress(t *testing.T) {
	assert := assert.New(t)
	buf := &bytes.Buffer{}
	trainer := NewTrainer(NewFeaturePipeline(MinMaxScaler{}),
		WithMinimumExampleCountPerLeaf(1),
		WithNumberOfTrees(5),
		WithProgress(true, buf),
	)

	_, err := trainer.Train(NewSession(&mockSeed), mockSeparableSamples())
	assert.NoError(err)
	assert.Contains(buf.String(), "Boost")
}

func TestNewInstances(t *testing.T) {
	assert := assert.New(t)

	inst, err := NewInstances([][]float64{{1, 2, 3, 4, 5, 6, 7, 8, 9}}, []bool{true})
	assert.NoError(err)
	cols, rows := inst.Size()
	assert.Equal(len(storage.FeatureNames)+1, cols)
	assert.Equal(1, rows)
	assert.Len(inst.AllClassAttributes(), 1)
	assert.Equal(storage.LabelName, inst.AllClassAttributes()[0].GetName())

	_, err = NewInstances([][]float64{{1}}, []bool{true})
	assert.Error(err)

	_, err = NewInstances([][]float64{{1, 2, 3, 4, 5, 6, 7, 8, 9}}, nil)
	assert.Error(err)
}
