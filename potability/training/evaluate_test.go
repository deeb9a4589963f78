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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterlab/potability/internal/wqerrors"
	"github.com/waterlab/potability/potability/storage"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		test   func(train, test []storage.WaterSample) []storage.WaterSample
		expect func(t *testing.T, eval *Eval, err error)
	}{
		{
			name: "evaluate on held out samples",
			test: func(train, test []storage.WaterSample) []storage.WaterSample {
				return test
			},
			expect: func(t *testing.T, eval *Eval, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(2, eval.Total)
				assert.GreaterOrEqual(eval.Accuracy, 0.8)
				for _, v := range []float64{eval.Accuracy, eval.AUC, eval.F1, eval.Precision, eval.Recall} {
					assert.True(v >= 0 && v <= 1)
				}
			},
		},
		{
			name: "evaluate on both classes",
			test: func(train, test []storage.WaterSample) []storage.WaterSample {
				return []storage.WaterSample{mockSample(2.2, false), mockSample(7.05, true), mockSample(3.9, false)}
			},
			expect: func(t *testing.T, eval *Eval, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(1.0, eval.Accuracy)
				assert.Equal(1.0, eval.AUC)
				assert.Equal(1.0, eval.F1)
				assert.Equal(1, eval.ConfusionMatrix[PositiveClass][PositiveClass])
				assert.Equal(2, eval.ConfusionMatrix[NegativeClass][NegativeClass])
				assert.Equal(0, eval.ConfusionMatrix[NegativeClass][PositiveClass])
			},
		},
		{
			name: "single class test set reports zero AUC",
			test: func(train, test []storage.WaterSample) []storage.WaterSample {
				return []storage.WaterSample{mockSample(2.2, false), mockSample(3.9, false)}
			},
			expect: func(t *testing.T, eval *Eval, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(1.0, eval.Accuracy)
				assert.Equal(0.0, eval.AUC)
				assert.Equal(0.0, eval.F1)
			},
		},
		{
			name: "empty test set",
			test: func(train, test []storage.WaterSample) []storage.WaterSample {
				return nil
			},
			expect: func(t *testing.T, eval *Eval, err error) {
				assert := assert.New(t)
				assert.True(wqerrors.CheckError(err, wqerrors.CodeInvalidArgument))
				assert.ErrorIs(err, wqerrors.ErrEmptyTestSet)
				assert.Nil(eval)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			session := NewSession(&mockSeed)
			train, test, err := Split(session, mockSeparableSamples(), 0.2)
			require.NoError(t, err)

			model, err := mockTrainer().Train(session, train)
			require.NoError(t, err)

			eval, err := Evaluate(model, tc.test(train, test))
			tc.expect(t, eval, err)
		})
	}
}

func TestAUC(t *testing.T) {
	tests := []struct {
		name          string
		labels        []bool
		probabilities []float64
		expect        func(t *testing.T, auc float64, ok bool)
	}{
		{
			name:          "perfect ranking",
			labels:        []bool{false, true, false, true},
			probabilities: []float64{0.1, 0.9, 0.2, 0.8},
			expect: func(t *testing.T, auc float64, ok bool) {
				assert := assert.New(t)
				assert.True(ok)
				assert.Equal(1.0, auc)
			},
		},
		{
			name:          "inverse ranking",
			labels:        []bool{true, false},
			probabilities: []float64{0.1, 0.9},
			expect: func(t *testing.T, auc float64, ok bool) {
				assert := assert.New(t)
				assert.True(ok)
				assert.Equal(0.0, auc)
			},
		},
		{
			name:          "ties take average rank",
			labels:        []bool{true, false, true, false},
			probabilities: []float64{0.5, 0.5, 0.5, 0.5},
			expect: func(t *testing.T, auc float64, ok bool) {
				assert := assert.New(t)
				assert.True(ok)
				assert.Equal(0.5, auc)
			},
		},
		{
			name:          "partial ranking",
			labels:        []bool{false, true, false, true},
			probabilities: []float64{0.1, 0.3, 0.4, 0.8},
			expect: func(t *testing.T, auc float64, ok bool) {
				assert := assert.New(t)
				assert.True(ok)
				assert.Equal(0.75, auc)
			},
		},
		{
			name:          "single class",
			labels:        []bool{true, true},
			probabilities: []float64{0.1, 0.9},
			expect: func(t *testing.T, auc float64, ok bool) {
				assert := assert.New(t)
				assert.False(ok)
				assert.Equal(0.0, auc)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			auc, ok := AUC(tc.labels, tc.probabilities)
			tc.expect(t, auc, ok)
		})
	}
}

func TestAdvise(t *testing.T) {
	tests := []struct {
		name      string
		accuracy  float64
		threshold float64
		expect    string
	}{
		{
			name:      "accuracy above threshold",
			accuracy:  0.85,
			threshold: 0.7,
			expect:    AdviceAcceptable,
		},
		{
			name:      "accuracy equals threshold",
			accuracy:  0.7,
			threshold: 0.7,
			expect:    AdviceAcceptable,
		},
		{
			name:      "accuracy below threshold",
			accuracy:  0.69,
			threshold: 0.7,
			expect:    AdviceNeedsImprovement,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, Advise(&Eval{Accuracy: tc.accuracy}, tc.threshold))
		})
	}
}
