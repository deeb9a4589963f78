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
	"math"
	"strconv"
	"strings"

	"github.com/waterlab/potability/internal/wqerrors"
	"github.com/waterlab/potability/potability/storage"
	"github.com/waterlab/potability/potability/training/models"
)

// Prediction is the result of predicting a single sample.
type Prediction struct {
	// Potability is the predicted label.
	Potability bool `yaml:"potability"`

	// Probability is the probability of potable.
	Probability float64 `yaml:"probability"`

	// Score is the raw score of ensemble.
	Score float64 `yaml:"score"`
}

// ParseSample builds a sample from field name to measurement, names match
// case-insensitively.
func ParseSample(fields map[string]string) (storage.WaterSample, error) {
	lower := make(map[string]string, len(fields))
	for k, v := range fields {
		lower[strings.ToLower(strings.TrimSpace(k))] = v
	}

	features := make([]float64, len(storage.FeatureNames))
	for j, name := range storage.FeatureNames {
		raw, ok := lower[strings.ToLower(name)]
		if !ok {
			return storage.WaterSample{}, wqerrors.Newf(wqerrors.CodeInvalidArgument, "sample requires field %s", name)
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return storage.WaterSample{}, wqerrors.Wrapf(err, wqerrors.CodeInvalidArgument, "sample field %s", name)
		}

		features[j] = v
	}

	sample := storage.NewWaterSample(features, false)
	if err := validateSample(sample); err != nil {
		return storage.WaterSample{}, err
	}

	return sample, nil
}

// Predict classifies a single sample, the model is not changed.
func (m *Model) Predict(sample storage.WaterSample) (*Prediction, error) {
	if err := validateSample(sample); err != nil {
		return nil, err
	}

	scores, err := m.Scores([]storage.WaterSample{sample})
	if err != nil {
		return nil, wqerrors.Wrapf(err, wqerrors.CodeUnknown, "score sample")
	}

	score := scores[0]
	probability := models.Sigmoid(score)
	return &Prediction{
		Potability:  probability >= models.DecisionThreshold,
		Probability: probability,
		Score:       score,
	}, nil
}

func validateSample(sample storage.WaterSample) error {
	for j, v := range sample.Features() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return wqerrors.Newf(wqerrors.CodeInvalidArgument, "sample field %s is %v", storage.FeatureNames[j], v)
		}
	}

	return nil
}
