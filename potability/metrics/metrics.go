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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/waterlab/potability/pkg/types"
	"github.com/waterlab/potability/version"
)

// Registry holds every collector of a training run.
var Registry = prometheus.NewRegistry()

// Variables declared for metrics.
var (
	StageDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.TrainingMetricsName,
		Name:      "stage_duration_seconds",
		Help:      "Histogram of the duration of the workflow stage.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"stage"})

	StageFailureCount = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.TrainingMetricsName,
		Name:      "stage_failure_total",
		Help:      "Counter of the number of failed of the workflow stage.",
	}, []string{"stage", "code"})

	SamplesLoadedCount = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.TrainingMetricsName,
		Name:      "samples_loaded_total",
		Help:      "Counter of the number of the samples loaded.",
	})

	SamplesDroppedCount = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.TrainingMetricsName,
		Name:      "samples_dropped_total",
		Help:      "Counter of the number of the samples dropped for missing measurements.",
	})

	SplitSizeGauge = promauto.With(Registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.TrainingMetricsName,
		Name:      "split_size",
		Help:      "Gauge of the number of samples in the split set.",
	}, []string{"set"})

	EvaluationGauge = promauto.With(Registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.TrainingMetricsName,
		Name:      "evaluation",
		Help:      "Gauge of the evaluation metric of the model.",
	}, []string{"metric"})

	PredictionCount = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.TrainingMetricsName,
		Name:      "prediction_total",
		Help:      "Counter of the number of the prediction by predicted label.",
	}, []string{"potability"})

	VersionGauge = promauto.With(Registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.TrainingMetricsName,
		Name:      "version",
		Help:      "Version info of the service.",
	}, []string{"major", "minor", "git_version", "git_commit", "platform", "build_time", "go_version"})
)

func init() {
	VersionGauge.WithLabelValues(version.Major, version.Minor, version.GitVersion, version.GitCommit, version.Platform, version.BuildTime, version.GoVersion).Set(1)
}

// WriteTextfile writes every collector in the text exposition format to
// path, it is readable by the node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
