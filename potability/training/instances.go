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
	"fmt"

	"github.com/sjwhitworth/golearn/base"

	"github.com/waterlab/potability/potability/storage"
)

// NewInstances packs feature vectors and labels into dense instances with a
// float attribute per feature and the float class attribute Potability.
func NewInstances(vectors [][]float64, labels []bool) (*base.DenseInstances, error) {
	if len(vectors) != len(labels) {
		return nil, fmt.Errorf("%d vectors and %d labels", len(vectors), len(labels))
	}

	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(storage.FeatureNames))
	for j, name := range storage.FeatureNames {
		specs[j] = inst.AddAttribute(base.NewFloatAttribute(name))
	}

	cls := base.NewFloatAttribute(storage.LabelName)
	clsSpec := inst.AddAttribute(cls)
	if err := inst.AddClassAttribute(cls); err != nil {
		return nil, err
	}

	if err := inst.Extend(len(vectors)); err != nil {
		return nil, err
	}

	for i, vector := range vectors {
		if len(vector) != len(specs) {
			return nil, fmt.Errorf("vector %d has length %d, expected %d", i, len(vector), len(specs))
		}

		for j, spec := range specs {
			inst.Set(spec, i, base.PackFloatToBytes(vector[j]))
		}

		inst.Set(clsSpec, i, base.PackFloatToBytes(labelToFloat(labels[i])))
	}

	return inst, nil
}

func labelToFloat(label bool) float64 {
	if label {
		return 1
	}

	return 0
}
