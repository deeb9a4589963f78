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
	"sort"
	"strconv"

	"github.com/sjwhitworth/golearn/evaluation"

	"github.com/waterlab/potability/internal/wqerrors"
	logger "github.com/waterlab/potability/internal/wqlog"
	"github.com/waterlab/potability/potability/storage"
)

const (
	// PositiveClass is the confusion matrix key of potable.
	PositiveClass = "true"

	// NegativeClass is the confusion matrix key of not potable.
	NegativeClass = "false"
)

const (
	// AdviceAcceptable is printed when accuracy reaches the threshold.
	AdviceAcceptable = "The model performs well and can be used for prediction on this type of data."

	// AdviceNeedsImprovement is printed when accuracy is below the threshold.
	AdviceNeedsImprovement = "The model may not be accurate enough for reliable predictions. Consider improving the model."
)

type Eval struct {
	// Accuracy fraction of correct predictions.
	Accuracy float64 `yaml:"accuracy"`

	// AUC area under the ROC curve.
	AUC float64 `yaml:"auc"`

	// F1 harmonic mean of precision and recall of potable.
	F1 float64 `yaml:"f1"`

	// Precision of potable.
	Precision float64 `yaml:"precision"`

	// Recall of potable.
	Recall float64 `yaml:"recall"`

	// Total count of evaluated samples.
	Total int `yaml:"total"`

	// ConfusionMatrix counts predictions by actual class then predicted class.
	ConfusionMatrix evaluation.ConfusionMatrix `yaml:"confusionMatrix"`
}

// Evaluate scores the model on test set, test samples go through the pipeline
// fitted on train set.
func Evaluate(model *Model, test []storage.WaterSample) (*Eval, error) {
	if len(test) == 0 {
		return nil, wqerrors.Wrapf(wqerrors.ErrEmptyTestSet, wqerrors.CodeInvalidArgument, "evaluate")
	}

	probabilities, err := model.Probabilities(test)
	if err != nil {
		return nil, err
	}

	predictions, err := model.Classify(test)
	if err != nil {
		return nil, err
	}

	labels := make([]bool, len(test))
	for i, sample := range test {
		labels[i] = sample.Potability
	}

	cm := newConfusionMatrix(labels, predictions)
	e := &Eval{
		Accuracy:        evaluation.GetAccuracy(cm),
		Precision:       zeroIfNaN(evaluation.GetPrecision(PositiveClass, cm)),
		Recall:          zeroIfNaN(evaluation.GetRecall(PositiveClass, cm)),
		F1:              zeroIfNaN(evaluation.GetF1Score(PositiveClass, cm)),
		Total:           len(test),
		ConfusionMatrix: cm,
	}

	auc, ok := AUC(labels, probabilities)
	if !ok {
		logger.WithStage("evaluate").Warnf("test set of %d samples has a single class, AUC is reported as 0", len(test))
	}
	e.AUC = auc

	logger.WithStage("evaluate").Infof("accuracy %f, auc %f, f1 %f on %d samples", e.Accuracy, e.AUC, e.F1, e.Total)
	return e, nil
}

// Advise returns the advisory sentence of accuracy against threshold.
func Advise(e *Eval, threshold float64) string {
	if e.Accuracy >= threshold {
		return AdviceAcceptable
	}

	return AdviceNeedsImprovement
}

// AUC returns the area under the ROC curve by the rank statistic, tied
// probabilities share their average rank. It is false when labels hold a
// single class.
func AUC(labels []bool, probabilities []float64) (float64, bool) {
	idx := make([]int, len(probabilities))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return probabilities[idx[i]] < probabilities[idx[j]]
	})

	var positives, negatives, rankSum float64
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && probabilities[idx[j+1]] == probabilities[idx[i]] {
			j++
		}

		// Ranks are 1-based, ties take the mean of i+1..j+1.
		rank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			if labels[idx[k]] {
				positives++
				rankSum += rank
			} else {
				negatives++
			}
		}

		i = j + 1
	}

	if positives == 0 || negatives == 0 {
		return 0, false
	}

	return (rankSum - positives*(positives+1)/2) / (positives * negatives), true
}

func newConfusionMatrix(labels, predictions []bool) evaluation.ConfusionMatrix {
	cm := evaluation.ConfusionMatrix{
		PositiveClass: {PositiveClass: 0, NegativeClass: 0},
		NegativeClass: {PositiveClass: 0, NegativeClass: 0},
	}

	for i, p := range predictions {
		actual := strconv.FormatBool(labels[i])
		predicted := strconv.FormatBool(p)
		cm[actual][predicted]++
	}

	return cm
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}

	return v
}
