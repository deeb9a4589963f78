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
	"github.com/waterlab/potability/potability/storage"
)

var mockSeed = int64(42)

// mockSample returns a sample whose measurements other than pH match the
// default prediction sample.
func mockSample(ph float64, potability bool) storage.WaterSample {
	return storage.NewWaterSample([]float64{ph, 200, 15000, 8, 350, 400, 10, 3, 2}, potability)
}

// mockSeparableSamples returns 5 potable and 5 not potable samples separable
// on pH.
func mockSeparableSamples() []storage.WaterSample {
	return []storage.WaterSample{
		mockSample(6.8, true),
		mockSample(2.0, false),
		mockSample(6.9, true),
		mockSample(2.5, false),
		mockSample(7.0, true),
		mockSample(3.0, false),
		mockSample(7.1, true),
		mockSample(3.5, false),
		mockSample(7.2, true),
		mockSample(4.0, false),
	}
}

func mockTrainer() *Trainer {
	return NewTrainer(NewFeaturePipeline(MinMaxScaler{}),
		WithNumberOfLeaves(4),
		WithMinimumExampleCountPerLeaf(1),
		WithLearningRate(0.2),
		WithNumberOfTrees(20),
	)
}

func mockDefaultFields() map[string]string {
	return map[string]string{
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
}
