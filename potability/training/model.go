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
	"github.com/sjwhitworth/golearn/base"

	"github.com/waterlab/potability/internal/wqerrors"
	"github.com/waterlab/potability/potability/storage"
	"github.com/waterlab/potability/potability/training/models"
)

// Model is the fitted pipeline with the classifier, it is read only after
// training.
type Model struct {
	pipeline *FittedPipeline
	booster  *models.GradientBoosting
}

// Pipeline returns the fitted feature pipeline.
func (m *Model) Pipeline() *FittedPipeline {
	return m.pipeline
}

// Booster returns the fitted classifier.
func (m *Model) Booster() *models.GradientBoosting {
	return m.booster
}

// Probabilities returns the probability of potable for every sample, samples
// go through the fitted pipeline first.
func (m *Model) Probabilities(samples []storage.WaterSample) ([]float64, error) {
	inst, err := m.instances(samples)
	if err != nil {
		return nil, err
	}

	return m.booster.PredictProba(inst)
}

// Scores returns the raw ensemble score for every sample.
func (m *Model) Scores(samples []storage.WaterSample) ([]float64, error) {
	inst, err := m.instances(samples)
	if err != nil {
		return nil, err
	}

	return m.booster.PredictScores(inst)
}

// Classify returns the predicted potability of every sample.
func (m *Model) Classify(samples []storage.WaterSample) ([]bool, error) {
	inst, err := m.instances(samples)
	if err != nil {
		return nil, err
	}

	predictions, err := m.booster.Predict(inst)
	if err != nil {
		return nil, err
	}

	clsSpec, err := predictions.GetAttribute(m.booster.Cls)
	if err != nil {
		return nil, err
	}

	classes := make([]bool, len(samples))
	for i := range classes {
		classes[i] = base.UnpackBytesToFloat(predictions.Get(clsSpec, i)) == 1
	}

	return classes, nil
}

// instances transforms samples with the fitted pipeline into a grid the
// booster resolves its feature columns against by name.
func (m *Model) instances(samples []storage.WaterSample) (*base.DenseInstances, error) {
	vectors := make([][]float64, len(samples))
	labels := make([]bool, len(samples))
	for i, sample := range samples {
		vector, err := m.pipeline.Transform(sample)
		if err != nil {
			return nil, err
		}

		vectors[i] = vector
		labels[i] = sample.Potability
	}

	inst, err := NewInstances(vectors, labels)
	if err != nil {
		return nil, wqerrors.Wrapf(err, wqerrors.CodeUnknown, "build instances")
	}

	return inst, nil
}
