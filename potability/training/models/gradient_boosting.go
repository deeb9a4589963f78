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

package models

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sjwhitworth/golearn/base"

	logger "github.com/waterlab/potability/internal/wqlog"
)

const (
	// DefaultL2Regularization is added to the hessian sum of a leaf.
	DefaultL2Regularization = 1e-3

	// DefaultMaxLeafOutput bounds the raw output of a leaf before shrinkage.
	DefaultMaxLeafOutput = 10.0

	// DecisionThreshold is the probability a sample is classified positive at.
	DecisionThreshold = 0.5
)

var (
	// ErrNotFitted is returned when predicting with a model not fitted.
	ErrNotFitted = errors.New("no fitted model")

	// ErrSingleClass is returned when labels contain a single class.
	ErrSingleClass = errors.New("labels contain a single class")
)

// GradientBoosting is a binary classifier built from an ensemble of
// regression trees fitted to the gradients of logistic loss.
type GradientBoosting struct {
	NumberOfLeaves             int     `yaml:"numberOfLeaves"`
	MinimumExampleCountPerLeaf int     `yaml:"minimumExampleCountPerLeaf"`
	LearningRate               float64 `yaml:"learningRate"`
	NumberOfTrees              int     `yaml:"numberOfTrees"`

	Fitted    bool    `yaml:"fitted"`
	InitScore float64 `yaml:"initScore"`
	Trees     []*Tree `yaml:"trees"`

	Attrs []*base.FloatAttribute `yaml:"-"`
	Cls   *base.FloatAttribute   `yaml:"-"`

	// onIteration is called after every boosting round.
	onIteration func(int)
}

// NewGradientBoosting return an instance of gradient boosting model.
func NewGradientBoosting(numberOfLeaves, minimumExampleCountPerLeaf int, learningRate float64, numberOfTrees int) *GradientBoosting {
	return &GradientBoosting{
		NumberOfLeaves:             numberOfLeaves,
		MinimumExampleCountPerLeaf: minimumExampleCountPerLeaf,
		LearningRate:               learningRate,
		NumberOfTrees:              numberOfTrees,
		Fitted:                     false,
	}
}

// OnIteration registers a callback invoked after every boosting round.
func (gb *GradientBoosting) OnIteration(fn func(int)) {
	gb.onIteration = fn
}

// Fit train trees of model to fit the data provided, class attribute must hold 0 or 1.
func (gb *GradientBoosting) Fit(inst base.FixedDataGrid) error {
	_, rows := inst.Size()
	if rows == 0 {
		return errors.New("no training rows")
	}

	classAttrs := inst.AllClassAttributes()
	if len(classAttrs) != 1 {
		return errors.New("only 1 class variable is permitted")
	}
	classAttrSpecs := base.ResolveAttributes(inst, classAttrs)

	// Feature columns are ordered by name, the order grids report attributes
	// in is not stable.
	allAttrs := base.NonClassAttributes(inst)
	attrs := make([]base.Attribute, 0)
	for _, a := range allAttrs {
		if _, ok := a.(*base.FloatAttribute); ok {
			attrs = append(attrs, a)
		}
	}
	sort.SliceStable(attrs, func(i, j int) bool {
		return attrs[i].GetName() < attrs[j].GetName()
	})
	attrSpecs := base.ResolveAttributes(inst, attrs)

	x := make([][]float64, rows)
	y := make([]float64, rows)
	var positives float64
	for i := 0; i < rows; i++ {
		x[i] = make([]float64, len(attrs))
		for j := range attrSpecs {
			x[i][j] = base.UnpackBytesToFloat(inst.Get(attrSpecs[j], i))
		}

		y[i] = base.UnpackBytesToFloat(inst.Get(classAttrSpecs[0], i))
		if y[i] != 0 && y[i] != 1 {
			return fmt.Errorf("row %d has class %v, expected 0 or 1", i, y[i])
		}
		positives += y[i]
	}

	if positives == 0 || positives == float64(rows) {
		return ErrSingleClass
	}

	prior := positives / float64(rows)
	gb.InitScore = math.Log(prior / (1 - prior))
	gb.Trees = make([]*Tree, 0, gb.NumberOfTrees)

	params := treeParams{
		numberOfLeaves: gb.NumberOfLeaves,
		minLeaf:        gb.MinimumExampleCountPerLeaf,
		lambda:         DefaultL2Regularization,
		maxDelta:       DefaultMaxLeafOutput,
		shrinkage:      gb.LearningRate,
	}

	all := make([]int, rows)
	scores := make([]float64, rows)
	for i := range all {
		all[i] = i
		scores[i] = gb.InitScore
	}

	grad := make([]float64, rows)
	hess := make([]float64, rows)
	for round := 0; round < gb.NumberOfTrees; round++ {
		for i := range scores {
			p := Sigmoid(scores[i])
			grad[i] = p - y[i]
			hess[i] = p * (1 - p)
		}

		tree := growTree(x, grad, hess, all, params)
		for i := range scores {
			scores[i] += tree.Predict(x[i])
		}
		gb.Trees = append(gb.Trees, tree)

		if gb.onIteration != nil {
			gb.onIteration(round)
		}
	}

	gb.Fitted = true
	gb.Attrs = make([]*base.FloatAttribute, len(attrs))
	for idx, a := range attrs {
		gb.Attrs[idx] = a.(*base.FloatAttribute)
	}
	gb.Cls = classAttrs[0].(*base.FloatAttribute)

	logger.Debugf("gradient boosting fitted %d trees on %d rows, init score %f", len(gb.Trees), rows, gb.InitScore)
	return nil
}

// FeatureNames returns the names of feature columns in the order trees index
// them.
func (gb *GradientBoosting) FeatureNames() []string {
	names := make([]string, len(gb.Attrs))
	for idx, a := range gb.Attrs {
		names[idx] = a.GetName()
	}

	return names
}

// score returns the raw score of a vector ordered as FeatureNames.
func (gb *GradientBoosting) score(x []float64) (float64, error) {
	if !gb.Fitted {
		return 0, ErrNotFitted
	}

	if len(x) != len(gb.Attrs) {
		return 0, fmt.Errorf("vector length %d, expected %d", len(x), len(gb.Attrs))
	}

	score := gb.InitScore
	for _, tree := range gb.Trees {
		score += tree.Predict(x)
	}

	return score, nil
}

// PredictScores returns the raw score of every row, feature columns are
// resolved by attribute so the column order of X does not matter.
func (gb *GradientBoosting) PredictScores(X base.FixedDataGrid) ([]float64, error) {
	if !gb.Fitted {
		return nil, ErrNotFitted
	}

	attrs := make([]base.Attribute, len(gb.Attrs))
	for idx, a := range gb.Attrs {
		attrs[idx] = a
	}
	attrSpecs := base.ResolveAttributes(X, attrs)

	_, rows := X.Size()
	scores := make([]float64, rows)
	err := X.MapOverRows(attrSpecs, func(row [][]byte, i int) (bool, error) {
		x := make([]float64, len(row))
		for j, r := range row {
			x[j] = base.UnpackBytesToFloat(r)
		}

		s, err := gb.score(x)
		if err != nil {
			return false, err
		}

		scores[i] = s
		return true, nil
	})
	if err != nil {
		logger.Infof("GradientBoosting error happens, error is %v", err)
		return nil, err
	}

	return scores, nil
}

// PredictProba returns the probability of positive class of every row.
func (gb *GradientBoosting) PredictProba(X base.FixedDataGrid) ([]float64, error) {
	scores, err := gb.PredictScores(X)
	if err != nil {
		return nil, err
	}

	probabilities := make([]float64, len(scores))
	for i, s := range scores {
		probabilities[i] = Sigmoid(s)
	}

	return probabilities, nil
}

// Predict use trees of model to classify the data provided, class is 1 when
// probability reaches DecisionThreshold.
func (gb *GradientBoosting) Predict(X base.FixedDataGrid) (base.FixedDataGrid, error) {
	probabilities, err := gb.PredictProba(X)
	if err != nil {
		return nil, err
	}

	ret := base.GeneratePredictionVector(X)
	clsSpec, err := ret.GetAttribute(gb.Cls)
	if err != nil {
		logger.Infof("GradientBoosting error happens, error is %v", err)
		return nil, err
	}

	for i, p := range probabilities {
		var class float64
		if p >= DecisionThreshold {
			class = 1
		}

		ret.Set(clsSpec, i, base.PackFloatToBytes(class))
	}

	return ret, nil
}

// Sigmoid maps a raw score to the probability of positive class.
func Sigmoid(score float64) float64 {
	return 1 / (1 + math.Exp(-score))
}
