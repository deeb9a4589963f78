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

package dag

import (
	"errors"
	"sync"
)

var (
	// ErrVertexNotFound represents vertex not found.
	ErrVertexNotFound = errors.New("vertex not found")

	// ErrVertexAlreadyExists represents vertex already exists.
	ErrVertexAlreadyExists = errors.New("vertex already exists")

	// ErrChildAlreadyExists represents child of vertex already exists.
	ErrChildAlreadyExists = errors.New("child of vertex already exists")

	// ErrCycleBetweenVertices represents cycle between vertices.
	ErrCycleBetweenVertices = errors.New("cycle between vertices")
)

// DAG is the interface used for directed acyclic graph.
type DAG[T any] interface {
	// AddVertex adds vertex to graph.
	AddVertex(id string, value T) error

	// VertexCount returns count of vertices.
	VertexCount() int

	// AddEdge adds edge between two vertices.
	AddEdge(fromVertexID, toVertexID string) error

	// TopologicalSort returns vertices in dependency order, vertices without
	// dependency between them keep the order they were added.
	TopologicalSort() []*Vertex[T]
}

// dag provides directed acyclic graph function.
type dag[T any] struct {
	mu       sync.RWMutex
	vertices map[string]*Vertex[T]
	order    []string
}

// NewDAG returns a new DAG interface.
func NewDAG[T any]() DAG[T] {
	return &dag[T]{
		vertices: make(map[string]*Vertex[T]),
	}
}

// AddVertex adds vertex to graph.
func (d *dag[T]) AddVertex(id string, value T) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.vertices[id]; ok {
		return ErrVertexAlreadyExists
	}

	d.vertices[id] = NewVertex(id, value)
	d.order = append(d.order, id)
	return nil
}

// VertexCount returns count of vertices.
func (d *dag[T]) VertexCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.vertices)
}

// AddEdge adds edge between two vertices.
func (d *dag[T]) AddEdge(fromVertexID, toVertexID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.canAddEdge(fromVertexID, toVertexID); err != nil {
		return err
	}

	fromVertex, toVertex := d.vertices[fromVertexID], d.vertices[toVertexID]
	fromVertex.Children[toVertexID] = toVertex
	toVertex.Parents[fromVertexID] = fromVertex
	return nil
}

// TopologicalSort returns vertices in dependency order with Kahn's algorithm.
func (d *dag[T]) TopologicalSort() []*Vertex[T] {
	d.mu.RLock()
	defer d.mu.RUnlock()

	inDegrees := make(map[string]int, len(d.vertices))
	for id, vertex := range d.vertices {
		inDegrees[id] = len(vertex.Parents)
	}

	sorted := make([]*Vertex[T], 0, len(d.vertices))
	visited := make(map[string]struct{}, len(d.vertices))
	for len(sorted) < len(d.vertices) {
		progressed := false
		for _, id := range d.order {
			if _, ok := visited[id]; ok || inDegrees[id] > 0 {
				continue
			}

			vertex := d.vertices[id]
			visited[id] = struct{}{}
			sorted = append(sorted, vertex)
			for childID := range vertex.Children {
				inDegrees[childID]--
			}

			progressed = true
			break
		}

		// Unreachable while AddEdge rejects cycles.
		if !progressed {
			break
		}
	}

	return sorted
}

func (d *dag[T]) canAddEdge(fromVertexID, toVertexID string) error {
	if fromVertexID == toVertexID {
		return ErrCycleBetweenVertices
	}

	fromVertex, ok := d.vertices[fromVertexID]
	if !ok {
		return ErrVertexNotFound
	}

	if _, ok := d.vertices[toVertexID]; !ok {
		return ErrVertexNotFound
	}

	if _, ok := fromVertex.Children[toVertexID]; ok {
		return ErrChildAlreadyExists
	}

	if d.depthFirstSearch(toVertexID, fromVertexID) {
		return ErrCycleBetweenVertices
	}

	return nil
}

// depthFirstSearch reports whether toVertexID is a successor of fromVertexID.
func (d *dag[T]) depthFirstSearch(fromVertexID, toVertexID string) bool {
	successors := make(map[string]struct{})
	d.search(fromVertexID, successors)
	_, ok := successors[toVertexID]
	return ok
}

// search finds successors of vertex.
func (d *dag[T]) search(vertexID string, successors map[string]struct{}) {
	vertex, ok := d.vertices[vertexID]
	if !ok {
		return
	}

	for id := range vertex.Children {
		if _, ok := successors[id]; !ok {
			successors[id] = struct{}{}
			d.search(id, successors)
		}
	}
}
