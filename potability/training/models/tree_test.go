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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTree_Grow(t *testing.T) {
	// Three groups along the first feature with different targets.
	x := [][]float64{{1, 0}, {2, 0}, {5, 0}, {6, 0}, {9, 0}, {10, 0}}
	grad := []float64{1, 1, -1, -1, 0.5, 0.5}
	hess := []float64{1, 1, 1, 1, 1, 1}
	rows := []int{0, 1, 2, 3, 4, 5}

	tests := []struct {
		name   string
		params treeParams
		expect func(t *testing.T, tree *Tree)
	}{
		{
			name:   "grow up to number of leaves",
			params: treeParams{numberOfLeaves: 3, minLeaf: 1, lambda: 0, maxDelta: 10, shrinkage: 1},
			expect: func(t *testing.T, tree *Tree) {
				assert := assert.New(t)
				assert.Equal(3, tree.Leaves())
				assert.Len(tree.Nodes, 5)
				assert.InDelta(-1, tree.Predict([]float64{1.5, 0}), 1e-12)
				assert.InDelta(1, tree.Predict([]float64{5.5, 0}), 1e-12)
				assert.InDelta(-0.5, tree.Predict([]float64{9.5, 0}), 1e-12)
			},
		},
		{
			name:   "limit to two leaves",
			params: treeParams{numberOfLeaves: 2, minLeaf: 1, lambda: 0, maxDelta: 10, shrinkage: 1},
			expect: func(t *testing.T, tree *Tree) {
				assert := assert.New(t)
				assert.Equal(2, tree.Leaves())
				assert.False(tree.Nodes[0].Leaf)
				assert.Equal(0, tree.Nodes[0].Feature)
			},
		},
		{
			name:   "threshold lies midway between values",
			params: treeParams{numberOfLeaves: 2, minLeaf: 1, lambda: 0, maxDelta: 10, shrinkage: 1},
			expect: func(t *testing.T, tree *Tree) {
				assert := assert.New(t)
				assert.Contains([]float64{3.5, 7.5}, tree.Nodes[0].Threshold)
			},
		},
		{
			name:   "minimum examples per leaf",
			params: treeParams{numberOfLeaves: 8, minLeaf: 3, lambda: 0, maxDelta: 10, shrinkage: 1},
			expect: func(t *testing.T, tree *Tree) {
				assert := assert.New(t)
				assert.LessOrEqual(tree.Leaves(), 2)
			},
		},
		{
			name:   "leaf output is clamped and shrunk",
			params: treeParams{numberOfLeaves: 1, minLeaf: 1, lambda: 0, maxDelta: 0.1, shrinkage: 0.5},
			expect: func(t *testing.T, tree *Tree) {
				assert := assert.New(t)
				assert.Equal(1, tree.Leaves())
				// Root output is -G/H = -1/6, clamped to -0.1 then shrunk.
				assert.InDelta(-0.05, tree.Predict([]float64{0, 0}), 1e-12)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.expect(t, growTree(x, grad, hess, rows, tc.params))
		})
	}
}
