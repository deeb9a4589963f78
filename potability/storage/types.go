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

package storage

import "math"

// FeatureNames are the continuous columns of dataset in declared order.
var FeatureNames = []string{
	"pH",
	"Hardness",
	"Solids",
	"Chloramines",
	"Sulfate",
	"Conductivity",
	"Organic_carbon",
	"Trihalomethanes",
	"Turbidity",
}

// LabelName is the label column of dataset.
const LabelName = "Potability"

// ColumnCount is count of columns of dataset.
var ColumnCount = len(FeatureNames) + 1

// WaterSample contains the measurements of a water body and its potability,
// missing measurement is NaN.
type WaterSample struct {
	// PH is feature, acid-base balance of water, 0~14.
	PH float64

	// Hardness is feature, capacity of water to precipitate soap in mg/L.
	Hardness float64

	// Solids is feature, total dissolved solids in ppm.
	Solids float64

	// Chloramines is feature, amount of chloramines in ppm.
	Chloramines float64

	// Sulfate is feature, amount of sulfates dissolved in mg/L.
	Sulfate float64

	// Conductivity is feature, electrical conductivity in μS/cm.
	Conductivity float64

	// OrganicCarbon is feature, amount of organic carbon in ppm.
	OrganicCarbon float64

	// Trihalomethanes is feature, amount of trihalomethanes in μg/L.
	Trihalomethanes float64

	// Turbidity is feature, light emitting property of water in NTU.
	Turbidity float64

	// Potability is label, water is safe for human consumption.
	Potability bool
}

// Features returns the measurements in the order of FeatureNames.
func (s *WaterSample) Features() []float64 {
	return []float64{
		s.PH,
		s.Hardness,
		s.Solids,
		s.Chloramines,
		s.Sulfate,
		s.Conductivity,
		s.OrganicCarbon,
		s.Trihalomethanes,
		s.Turbidity,
	}
}

// HasMissing returns whether any measurement is missing.
func (s *WaterSample) HasMissing() bool {
	for _, v := range s.Features() {
		if math.IsNaN(v) {
			return true
		}
	}

	return false
}

// NewWaterSample builds a sample from measurements in the order of FeatureNames.
func NewWaterSample(features []float64, potability bool) WaterSample {
	return WaterSample{
		PH:              features[0],
		Hardness:        features[1],
		Solids:          features[2],
		Chloramines:     features[3],
		Sulfate:         features[4],
		Conductivity:    features[5],
		OrganicCarbon:   features[6],
		Trihalomethanes: features[7],
		Turbidity:       features[8],
		Potability:      potability,
	}
}

// record is a raw row of dataset, columns are mapped by position.
type record struct {
	PH              string `csv:"pH"`
	Hardness        string `csv:"Hardness"`
	Solids          string `csv:"Solids"`
	Chloramines     string `csv:"Chloramines"`
	Sulfate         string `csv:"Sulfate"`
	Conductivity    string `csv:"Conductivity"`
	OrganicCarbon   string `csv:"Organic_carbon"`
	Trihalomethanes string `csv:"Trihalomethanes"`
	Turbidity       string `csv:"Turbidity"`
	Potability      string `csv:"Potability"`
}

func (r *record) features() []string {
	return []string{
		r.PH,
		r.Hardness,
		r.Solids,
		r.Chloramines,
		r.Sulfate,
		r.Conductivity,
		r.OrganicCarbon,
		r.Trihalomethanes,
		r.Turbidity,
	}
}
