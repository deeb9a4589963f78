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

	"github.com/waterlab/potability/internal/wqerrors"
	"github.com/waterlab/potability/potability/storage"
)

// Split partitions samples into train and test sets, the test set holds
// round(fraction*N) samples drawn by the session. Both sets keep the order of
// samples.
func Split(session *Session, samples []storage.WaterSample, fraction float64) ([]storage.WaterSample, []storage.WaterSample, error) {
	if math.IsNaN(fraction) || fraction <= 0 || fraction >= 1 {
		return nil, nil, wqerrors.Newf(wqerrors.CodeInvalidArgument, "test fraction %v is out of (0, 1)", fraction)
	}

	if len(samples) == 0 {
		return nil, nil, wqerrors.Wrapf(wqerrors.ErrEmptyDataset, wqerrors.CodeInvalidArgument, "split")
	}

	testSize := int(math.Round(fraction * float64(len(samples))))
	inTest := make([]bool, len(samples))
	for _, idx := range session.Rand().Perm(len(samples))[:testSize] {
		inTest[idx] = true
	}

	train := make([]storage.WaterSample, 0, len(samples)-testSize)
	test := make([]storage.WaterSample, 0, testSize)
	for i, sample := range samples {
		if inTest[i] {
			test = append(test, sample)
			continue
		}

		train = append(train, sample)
	}

	return train, test, nil
}
