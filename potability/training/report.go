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
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Print writes the metrics, the advice and the prediction of result.
func Print(w io.Writer, result *Result) error {
	if result.Eval == nil || result.Prediction == nil {
		return errors.New("result is incomplete")
	}

	lines := []string{
		fmt.Sprintf("Accuracy: %s", percent(result.Eval.Accuracy)),
		fmt.Sprintf("AUC: %s", percent(result.Eval.AUC)),
		fmt.Sprintf("F1 Score: %s", percent(result.Eval.F1)),
		result.Advice,
		fmt.Sprintf("Predicted Potability: %t", result.Prediction.Potability),
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

// WriteReport writes result as yaml to path.
func WriteReport(path string, result *Result) error {
	content, err := yaml.Marshal(result)
	if err != nil {
		return err
	}

	return os.WriteFile(path, content, 0644)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
