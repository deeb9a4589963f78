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
	"math"
	"sort"
)

const (
	// minSplitGain is the least gain a split must bring.
	minSplitGain = 1e-9
)

// Node is a node of regression tree, a leaf when Leaf is true.
type Node struct {
	Leaf      bool    `yaml:"leaf"`
	Value     float64 `yaml:"value,omitempty"`
	Feature   int     `yaml:"feature,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty"`
	Left      int     `yaml:"left,omitempty"`
	Right     int     `yaml:"right,omitempty"`
}

// Tree is a regression tree stored as a node array, root is the first node.
type Tree struct {
	Nodes []Node `yaml:"nodes"`
}

// Predict returns the leaf value the vector falls into.
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for !t.Nodes[i].Leaf {
		if x[t.Nodes[i].Feature] <= t.Nodes[i].Threshold {
			i = t.Nodes[i].Left
		} else {
			i = t.Nodes[i].Right
		}
	}

	return t.Nodes[i].Value
}

// Leaves returns count of leaves.
func (t *Tree) Leaves() int {
	count := 0
	for _, n := range t.Nodes {
		if n.Leaf {
			count++
		}
	}

	return count
}

// treeParams are the parameters of growing a tree.
type treeParams struct {
	numberOfLeaves int
	minLeaf        int
	lambda         float64
	maxDelta       float64
	shrinkage      float64
}

// split is the best split of a leaf.
type split struct {
	ok        bool
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

// leaf is a leaf of growing tree.
type leaf struct {
	node int
	rows []int
	best split
}

// growTree fits a tree to gradients and hessians leaf-wise, the leaf with the
// largest gain splits first until numberOfLeaves is reached.
func growTree(x [][]float64, grad, hess []float64, rows []int, p treeParams) *Tree {
	t := &Tree{Nodes: []Node{{Leaf: true}}}
	leaves := []*leaf{{node: 0, rows: rows, best: findSplit(x, grad, hess, rows, p)}}

	for len(leaves) < p.numberOfLeaves {
		idx := -1
		for i, l := range leaves {
			if l.best.ok && (idx < 0 || l.best.gain > leaves[idx].best.gain) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}

		l := leaves[idx]
		left, right := len(t.Nodes), len(t.Nodes)+1
		t.Nodes[l.node] = Node{
			Feature:   l.best.feature,
			Threshold: l.best.threshold,
			Left:      left,
			Right:     right,
		}
		t.Nodes = append(t.Nodes, Node{Leaf: true}, Node{Leaf: true})

		leaves[idx] = &leaf{node: left, rows: l.best.left, best: findSplit(x, grad, hess, l.best.left, p)}
		leaves = append(leaves, &leaf{node: right, rows: l.best.right, best: findSplit(x, grad, hess, l.best.right, p)})
	}

	for _, l := range leaves {
		g, h := sum(grad, l.rows), sum(hess, l.rows)
		value := -g / (h + p.lambda)
		value = math.Max(-p.maxDelta, math.Min(p.maxDelta, value))
		t.Nodes[l.node].Value = value * p.shrinkage
	}

	return t
}

// findSplit searches the split of rows with the largest gain, thresholds lie
// midway between adjacent distinct values.
func findSplit(x [][]float64, grad, hess []float64, rows []int, p treeParams) split {
	best := split{}
	if len(rows) < 2 || len(rows) < 2*p.minLeaf {
		return best
	}

	g, h := sum(grad, rows), sum(hess, rows)
	parent := g * g / (h + p.lambda)

	sorted := make([]int, len(rows))
	for feature := range x[rows[0]] {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return x[sorted[i]][feature] < x[sorted[j]][feature]
		})

		var gl, hl float64
		for i := 0; i < len(sorted)-1; i++ {
			gl += grad[sorted[i]]
			hl += hess[sorted[i]]

			lv, rv := x[sorted[i]][feature], x[sorted[i+1]][feature]
			if lv == rv {
				continue
			}

			nl := i + 1
			if nl < p.minLeaf || len(sorted)-nl < p.minLeaf {
				continue
			}

			gr, hr := g-gl, h-hl
			gain := gl*gl/(hl+p.lambda) + gr*gr/(hr+p.lambda) - parent
			if gain <= minSplitGain || (best.ok && gain <= best.gain) {
				continue
			}

			best = split{
				ok:        true,
				feature:   feature,
				threshold: lv + (rv-lv)/2,
				gain:      gain,
			}
		}
	}

	if best.ok {
		for _, r := range rows {
			if x[r][best.feature] <= best.threshold {
				best.left = append(best.left, r)
			} else {
				best.right = append(best.right, r)
			}
		}
	}

	return best
}

func sum(values []float64, rows []int) float64 {
	var s float64
	for _, r := range rows {
		s += values[r]
	}

	return s
}
