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
	"math/rand"
	"time"
)

// Session is the context of a single training run, every stage that needs
// randomness draws from it.
type Session struct {
	seed   int64
	seeded bool
	rand   *rand.Rand
}

// NewSession returns a session, nil seed makes the run nondeterministic.
func NewSession(seed *int64) *Session {
	s := &Session{}
	if seed != nil {
		s.seed = *seed
		s.seeded = true
	} else {
		s.seed = time.Now().UnixNano()
	}

	s.rand = rand.New(rand.NewSource(s.seed))
	return s
}

// Seed returns the seed of session and whether it was configured.
func (s *Session) Seed() (int64, bool) {
	return s.seed, s.seeded
}

// Rand returns the random source of session.
func (s *Session) Rand() *rand.Rand {
	return s.rand
}
