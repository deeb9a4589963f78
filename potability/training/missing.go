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

import "github.com/waterlab/potability/potability/storage"

// DropMissing removes samples with any missing measurement, it returns the
// kept samples and the count of dropped ones.
func DropMissing(samples []storage.WaterSample) ([]storage.WaterSample, int) {
	kept := make([]storage.WaterSample, 0, len(samples))
	for _, sample := range samples {
		if sample.HasMissing() {
			continue
		}

		kept = append(kept, sample)
	}

	return kept, len(samples) - len(kept)
}
