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
	"math"

	"github.com/montanaflynn/stats"

	"github.com/waterlab/potability/internal/wqerrors"
	logger "github.com/waterlab/potability/internal/wqlog"
	"github.com/waterlab/potability/potability/storage"
)

// Stage is a step of feature pipeline which learns its parameters from the
// training vectors.
type Stage interface {
	// Name returns the name of stage.
	Name() string

	// Fit learns parameters from vectors, vectors must not be changed.
	Fit(*Session, [][]float64) (StageParams, error)
}

// StageParams are the fitted parameters of a stage.
type StageParams interface {
	// Apply transforms a copy of vector.
	Apply([]float64) ([]float64, error)
}

// FeaturePipeline concatenates the measurements of a sample into a vector and
// runs the vector through stages in order.
type FeaturePipeline struct {
	stages []Stage
}

// NewFeaturePipeline returns a pipeline of stages.
func NewFeaturePipeline(stages ...Stage) *FeaturePipeline {
	return &FeaturePipeline{stages: stages}
}

// Fit learns the parameters of every stage from training samples, each stage
// is fitted on the output of the previous one.
func (p *FeaturePipeline) Fit(session *Session, samples []storage.WaterSample) (*FittedPipeline, error) {
	if len(samples) == 0 {
		return nil, wqerrors.Wrapf(wqerrors.ErrEmptyDataset, wqerrors.CodeTraining, "fit feature pipeline")
	}

	vectors := make([][]float64, len(samples))
	for i := range samples {
		vectors[i] = Concatenate(samples[i])
	}

	fitted := &FittedPipeline{params: make([]StageParams, 0, len(p.stages))}
	for _, stage := range p.stages {
		params, err := stage.Fit(session, vectors)
		if err != nil {
			return nil, fmt.Errorf("fit stage %s: %w", stage.Name(), err)
		}

		for i := range vectors {
			if vectors[i], err = params.Apply(vectors[i]); err != nil {
				return nil, fmt.Errorf("apply stage %s: %w", stage.Name(), err)
			}
		}

		logger.WithStage(stage.Name()).Debugf("stage fitted on %d vectors", len(vectors))
		fitted.params = append(fitted.params, params)
	}

	return fitted, nil
}

// FittedPipeline is an immutable pipeline with learned parameters.
type FittedPipeline struct {
	params []StageParams
}

// Transform maps a sample to its feature vector.
func (f *FittedPipeline) Transform(sample storage.WaterSample) ([]float64, error) {
	vector := Concatenate(sample)
	for _, params := range f.params {
		var err error
		if vector, err = params.Apply(vector); err != nil {
			return nil, err
		}
	}

	return vector, nil
}

// Params returns the fitted parameters of stages in order.
func (f *FittedPipeline) Params() []StageParams {
	return f.params
}

// Concatenate returns the measurements of sample in declared order.
func Concatenate(sample storage.WaterSample) []float64 {
	return sample.Features()
}

// MeanImputer replaces missing measurements with the mean of training vectors.
type MeanImputer struct{}

// MeanImputerParams are the per position means.
type MeanImputerParams struct {
	Means []float64 `yaml:"means"`
}

func (MeanImputer) Name() string {
	return "meanImputer"
}

func (MeanImputer) Fit(_ *Session, vectors [][]float64) (StageParams, error) {
	params := &MeanImputerParams{Means: make([]float64, len(storage.FeatureNames))}
	for j := range params.Means {
		mean, err := stats.Mean(column(vectors, j))
		if err != nil {
			// Every value of the column is missing.
			continue
		}

		params.Means[j] = mean
	}

	return params, nil
}

func (p *MeanImputerParams) Apply(vector []float64) ([]float64, error) {
	if len(vector) != len(p.Means) {
		return nil, wqerrors.Newf(wqerrors.CodeInvalidArgument, "vector length %d, expected %d", len(vector), len(p.Means))
	}

	out := make([]float64, len(vector))
	for j, v := range vector {
		if math.IsNaN(v) {
			v = p.Means[j]
		}

		out[j] = v
	}

	return out, nil
}

// MinMaxScaler maps each position to [0, 1] by the range of training vectors.
type MinMaxScaler struct{}

// MinMaxScalerParams are the per position minimum and maximum.
type MinMaxScalerParams struct {
	Min []float64 `yaml:"min"`
	Max []float64 `yaml:"max"`
}

func (MinMaxScaler) Name() string {
	return "minMaxScaler"
}

func (MinMaxScaler) Fit(_ *Session, vectors [][]float64) (StageParams, error) {
	params := &MinMaxScalerParams{
		Min: make([]float64, len(storage.FeatureNames)),
		Max: make([]float64, len(storage.FeatureNames)),
	}

	for j := range storage.FeatureNames {
		values := column(vectors, j)
		if len(values) == 0 {
			continue
		}

		min, err := stats.Min(values)
		if err != nil {
			return nil, err
		}

		max, err := stats.Max(values)
		if err != nil {
			return nil, err
		}

		params.Min[j], params.Max[j] = min, max
	}

	return params, nil
}

func (p *MinMaxScalerParams) Apply(vector []float64) ([]float64, error) {
	if len(vector) != len(p.Min) {
		return nil, wqerrors.Newf(wqerrors.CodeInvalidArgument, "vector length %d, expected %d", len(vector), len(p.Min))
	}

	out := make([]float64, len(vector))
	for j, v := range vector {
		if math.IsNaN(v) {
			return nil, wqerrors.Newf(wqerrors.CodeInvalidArgument, "measurement %s is missing", storage.FeatureNames[j])
		}

		// Degenerate position carries no information.
		if p.Max[j] == p.Min[j] {
			out[j] = 0
			continue
		}

		out[j] = math.Min(1, math.Max(0, (v-p.Min[j])/(p.Max[j]-p.Min[j])))
	}

	return out, nil
}

// column returns the non missing values at position j.
func column(vectors [][]float64, j int) []float64 {
	values := make([]float64, 0, len(vectors))
	for _, vector := range vectors {
		if math.IsNaN(vector[j]) {
			continue
		}

		values = append(values, vector[j])
	}

	return values
}
