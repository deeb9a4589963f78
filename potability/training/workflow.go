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
	"context"
	"io"
	"os"
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/waterlab/potability/internal/wqerrors"
	logger "github.com/waterlab/potability/internal/wqlog"
	"github.com/waterlab/potability/pkg/dag"
	"github.com/waterlab/potability/potability/config"
	"github.com/waterlab/potability/potability/metrics"
	"github.com/waterlab/potability/potability/storage"
)

const (
	// StepLoad loads the dataset and applies the drop policy.
	StepLoad = "load"

	// StepSplit splits the dataset into train and test sets.
	StepSplit = "split"

	// StepFit fits the feature pipeline and the classifier.
	StepFit = "fit"

	// StepEvaluate scores the model on test set.
	StepEvaluate = "evaluate"

	// StepPredict predicts the configured sample.
	StepPredict = "predict"
)

// Steps are the workflow steps in dependency order.
var Steps = []string{StepLoad, StepSplit, StepFit, StepEvaluate, StepPredict}

// Result is the outcome of a workflow run.
type Result struct {
	// Loaded count of samples read from dataset.
	Loaded int `yaml:"loaded"`

	// Dropped count of samples dropped for missing measurements.
	Dropped int `yaml:"dropped"`

	// TrainSize count of samples in train set.
	TrainSize int `yaml:"trainSize"`

	// TestSize count of samples in test set.
	TestSize int `yaml:"testSize"`

	// Seed of the run, Seeded is false when it was drawn from the clock.
	Seed   int64 `yaml:"seed"`
	Seeded bool  `yaml:"seeded"`

	// Trainer hyperparameters.
	Trainer config.TrainerConfig `yaml:"trainer"`

	// Eval metrics on test set.
	Eval *Eval `yaml:"evaluation"`

	// Advice is the advisory sentence of accuracy.
	Advice string `yaml:"advice"`

	// Sample is the predicted sample.
	Sample map[string]float64 `yaml:"sample"`

	// Prediction of sample.
	Prediction *Prediction `yaml:"prediction"`

	// Model is the trained model.
	Model *Model `yaml:"-"`
}

// step runs a single stage against the state of run.
type step func(context.Context, *runState) error

// runState is passed along steps of a single run.
type runState struct {
	session *Session
	samples []storage.WaterSample
	train   []storage.WaterSample
	test    []storage.WaterSample
	model   *Model
	result  *Result
}

// Workflow runs load, split, fit, evaluate and predict in order.
type Workflow struct {
	config         *config.Config
	storage        storage.Storage
	progressWriter io.Writer
	dag            dag.DAG[step]
}

// WorkflowOption is a functional option for configuring the workflow.
type WorkflowOption func(w *Workflow)

// WithProgressWriter sets the writer of progress bar.
func WithProgressWriter(writer io.Writer) WorkflowOption {
	return func(w *Workflow) {
		w.progressWriter = writer
	}
}

// NewWorkflow return a Workflow instance.
func NewWorkflow(cfg *config.Config, storage storage.Storage, options ...WorkflowOption) (*Workflow, error) {
	w := &Workflow{
		config:         cfg,
		storage:        storage,
		progressWriter: os.Stderr,
		dag:            dag.NewDAG[step](),
	}

	for _, opt := range options {
		opt(w)
	}

	steps := map[string]step{
		StepLoad:     w.load,
		StepSplit:    w.split,
		StepFit:      w.fit,
		StepEvaluate: w.evaluate,
		StepPredict:  w.predict,
	}

	for _, name := range Steps {
		if err := w.dag.AddVertex(name, steps[name]); err != nil {
			return nil, err
		}
	}

	for i := 1; i < len(Steps); i++ {
		if err := w.dag.AddEdge(Steps[i-1], Steps[i]); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// Run executes steps in topological order, the first failure aborts the run.
func (w *Workflow) Run(ctx context.Context) (*Result, error) {
	session := NewSession(w.config.Split.Seed)
	seed, seeded := session.Seed()
	state := &runState{
		session: session,
		result: &Result{
			Seed:    seed,
			Seeded:  seeded,
			Trainer: w.config.Trainer,
		},
	}

	for _, vertex := range w.dag.TopologicalSort() {
		if err := ctx.Err(); err != nil {
			return nil, pkgerrors.Wrapf(err, "stage %s", vertex.ID)
		}

		log := logger.WithStage(vertex.ID)
		log.Debugf("stage started")

		start := time.Now()
		err := vertex.Value(ctx, state)
		metrics.StageDuration.WithLabelValues(vertex.ID).Observe(time.Since(start).Seconds())
		if err != nil {
			code := wqerrors.CodeOf(err)
			metrics.StageFailureCount.WithLabelValues(vertex.ID, code.String()).Inc()
			log.Errorf("stage failed with %s: %v", code, err)
			return nil, pkgerrors.Wrapf(err, "stage %s", vertex.ID)
		}

		log.Infof("stage finished in %s", time.Since(start))
	}

	return state.result, nil
}

func (w *Workflow) load(ctx context.Context, state *runState) error {
	samples, err := w.storage.Load(w.config.Data.Path)
	if err != nil {
		return err
	}

	state.result.Loaded = len(samples)
	metrics.SamplesLoadedCount.Add(float64(len(samples)))

	if w.config.Data.MissingValue == config.MissingValueDrop {
		var dropped int
		samples, dropped = DropMissing(samples)
		state.result.Dropped = dropped
		metrics.SamplesDroppedCount.Add(float64(dropped))
		if dropped > 0 {
			logger.WithStage(StepLoad).Infof("dropped %d samples with missing measurements, %d kept", dropped, len(samples))
		}
	}

	state.samples = samples
	return nil
}

func (w *Workflow) split(ctx context.Context, state *runState) error {
	train, test, err := Split(state.session, state.samples, w.config.Split.TestFraction)
	if err != nil {
		return err
	}

	state.train, state.test = train, test
	state.result.TrainSize, state.result.TestSize = len(train), len(test)
	metrics.SplitSizeGauge.WithLabelValues("train").Set(float64(len(train)))
	metrics.SplitSizeGauge.WithLabelValues("test").Set(float64(len(test)))
	return nil
}

func (w *Workflow) fit(ctx context.Context, state *runState) error {
	var stages []Stage
	if w.config.Data.MissingValue == config.MissingValueMean {
		stages = append(stages, MeanImputer{})
	}
	stages = append(stages, MinMaxScaler{})

	trainer := NewTrainer(NewFeaturePipeline(stages...),
		WithNumberOfLeaves(w.config.Trainer.NumberOfLeaves),
		WithMinimumExampleCountPerLeaf(w.config.Trainer.MinimumExampleCountPerLeaf),
		WithLearningRate(w.config.Trainer.LearningRate),
		WithNumberOfTrees(w.config.Trainer.NumberOfTrees),
		WithProgress(w.config.Trainer.ShowProgress, w.progressWriter),
	)

	model, err := trainer.Train(state.session, state.train)
	if err != nil {
		return err
	}

	state.model = model
	state.result.Model = model
	return nil
}

func (w *Workflow) evaluate(ctx context.Context, state *runState) error {
	eval, err := Evaluate(state.model, state.test)
	if err != nil {
		return err
	}

	state.result.Eval = eval
	state.result.Advice = Advise(eval, w.config.Evaluation.AccuracyThreshold)
	metrics.EvaluationGauge.WithLabelValues("accuracy").Set(eval.Accuracy)
	metrics.EvaluationGauge.WithLabelValues("auc").Set(eval.AUC)
	metrics.EvaluationGauge.WithLabelValues("f1").Set(eval.F1)
	metrics.EvaluationGauge.WithLabelValues("precision").Set(eval.Precision)
	metrics.EvaluationGauge.WithLabelValues("recall").Set(eval.Recall)
	return nil
}

func (w *Workflow) predict(ctx context.Context, state *runState) error {
	sample, err := ParseSample(w.config.Predict.Sample)
	if err != nil {
		return err
	}

	prediction, err := state.model.Predict(sample)
	if err != nil {
		return err
	}

	state.result.Sample = make(map[string]float64, len(storage.FeatureNames))
	for j, v := range sample.Features() {
		state.result.Sample[storage.FeatureNames[j]] = v
	}
	state.result.Prediction = prediction
	metrics.PredictionCount.WithLabelValues(strconv.FormatBool(prediction.Potability)).Inc()
	return nil
}
