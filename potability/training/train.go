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
	"github.com/schollz/progressbar/v3"

	"github.com/waterlab/potability/internal/wqerrors"
	logger "github.com/waterlab/potability/internal/wqlog"
	"github.com/waterlab/potability/potability/storage"
	"github.com/waterlab/potability/potability/training/models"
)

// Trainer fits the feature pipeline and the gradient boosting classifier.
type Trainer struct {
	pipeline *FeaturePipeline
	options  *TrainOptions
}

// NewTrainer return a Trainer instance.
func NewTrainer(pipeline *FeaturePipeline, options ...TrainOptionFunc) *Trainer {
	t := &Trainer{
		pipeline: pipeline,
		options:  NewTrainOptions(),
	}

	for _, o := range options {
		o(t.options)
	}

	return t
}

// Options returns the hyperparameters of trainer.
func (t *Trainer) Options() TrainOptions {
	return *t.options
}

// Train fits the pipeline on train set, then fits the classifier on the
// transformed vectors.
func (t *Trainer) Train(session *Session, train []storage.WaterSample) (*Model, error) {
	if len(train) == 0 {
		return nil, wqerrors.Wrapf(wqerrors.ErrEmptyDataset, wqerrors.CodeTraining, "train")
	}

	var positives int
	for _, sample := range train {
		if sample.Potability {
			positives++
		}
	}

	if positives == 0 || positives == len(train) {
		return nil, wqerrors.Wrapf(wqerrors.ErrSingleClass, wqerrors.CodeTraining, "train on %d samples", len(train))
	}

	fitted, err := t.pipeline.Fit(session, train)
	if err != nil {
		return nil, err
	}

	vectors := make([][]float64, len(train))
	labels := make([]bool, len(train))
	for i, sample := range train {
		if vectors[i], err = fitted.Transform(sample); err != nil {
			return nil, err
		}

		labels[i] = sample.Potability
	}

	inst, err := NewInstances(vectors, labels)
	if err != nil {
		return nil, wqerrors.Wrapf(err, wqerrors.CodeTraining, "build training instances")
	}

	booster := models.NewGradientBoosting(
		t.options.NumberOfLeaves,
		t.options.MinimumExampleCountPerLeaf,
		t.options.LearningRate,
		t.options.NumberOfTrees,
	)

	var bar *progressbar.ProgressBar
	if t.options.ShowProgress {
		bar = progressbar.NewOptions(t.options.NumberOfTrees,
			progressbar.OptionSetWriter(t.options.ProgressWriter),
			progressbar.OptionSetDescription("Boosting"),
			progressbar.OptionShowCount(),
		)
		booster.OnIteration(func(int) {
			_ = bar.Add(1)
		})
	}

	if err := booster.Fit(inst); err != nil {
		return nil, wqerrors.Wrapf(err, wqerrors.CodeTraining, "fit gradient boosting")
	}

	if bar != nil {
		bar.Describe("Boosted")
		_ = bar.Finish()
	}

	logger.WithStage("fit").Infof("trained %d trees on %d samples, %d potable", len(booster.Trees), len(train), positives)
	return &Model{
		pipeline: fitted,
		booster:  booster,
	}, nil
}
