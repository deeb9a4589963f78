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

// Vertex is a vertex of the directed acyclic graph.
type Vertex[T any] struct {
	ID       string
	Value    T
	Parents  map[string]*Vertex[T]
	Children map[string]*Vertex[T]
}

// NewVertex returns a new Vertex instance.
func NewVertex[T any](id string, value T) *Vertex[T] {
	return &Vertex[T]{
		ID:       id,
		Value:    value,
		Parents:  make(map[string]*Vertex[T]),
		Children: make(map[string]*Vertex[T]),
	}
}
