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

package storage

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waterlab/potability/internal/wqerrors"
)

func TestStorage_New(t *testing.T) {
	tests := []struct {
		name    string
		options []Option
		expect  func(t *testing.T, s Storage)
	}{
		{
			name: "new storage",
			expect: func(t *testing.T, s Storage) {
				assert := assert.New(t)
				assert.Equal(reflect.TypeOf(s).Elem().Name(), "storage")
				assert.Equal(s.(*storage).separator, DefaultSeparator)
				assert.True(s.(*storage).hasHeader)
			},
		},
		{
			name:    "new storage with options",
			options: []Option{WithSeparator(';'), WithHeader(false)},
			expect: func(t *testing.T, s Storage) {
				assert := assert.New(t)
				assert.Equal(s.(*storage).separator, ';')
				assert.False(s.(*storage).hasHeader)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.expect(t, New(tc.options...))
		})
	}
}

func TestStorage_Load(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		options []Option
		expect  func(t *testing.T, samples []WaterSample, err error)
	}{
		{
			name: "load dataset with missing values",
			path: "./testdata/water_potability.csv",
			expect: func(t *testing.T, samples []WaterSample, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Len(samples, 4)
				assert.True(math.IsNaN(samples[0].PH))
				assert.True(samples[0].HasMissing())
				assert.False(samples[0].Potability)
				assert.InDelta(3.716080075386007, samples[1].PH, 1e-12)
				assert.True(math.IsNaN(samples[1].Sulfate))
				assert.True(samples[2].Potability)
				assert.False(samples[3].HasMissing())
				assert.InDelta(4.628770536837084, samples[3].Turbidity, 1e-12)
			},
		},
		{
			name:    "load dataset with separator",
			path:    "./testdata/semicolon.csv",
			options: []Option{WithSeparator(';')},
			expect: func(t *testing.T, samples []WaterSample, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Len(samples, 2)
				assert.Equal([]float64{7.0, 200, 15000, 8, 350, 400, 10, 3, 2}, samples[0].Features())
				assert.True(samples[0].Potability)
				assert.False(samples[1].Potability)
			},
		},
		{
			name:    "load dataset without header",
			path:    "./testdata/headerless.csv",
			options: []Option{WithHeader(false)},
			expect: func(t *testing.T, samples []WaterSample, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Len(samples, 2)
				assert.Equal(6.5, samples[1].PH)
				assert.True(samples[0].Potability)
			},
		},
		{
			name: "load dataset with header only",
			path: "./testdata/header_only.csv",
			expect: func(t *testing.T, samples []WaterSample, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Empty(samples)
			},
		},
		{
			name: "dataset not found",
			path: "./testdata/foo.csv",
			expect: func(t *testing.T, samples []WaterSample, err error) {
				assert := assert.New(t)
				assert.True(wqerrors.CheckError(err, wqerrors.CodeNotFound))
				assert.Nil(samples)
			},
		},
		{
			name: "dataset has wrong field count",
			path: "./testdata/bad_field_count.csv",
			expect: func(t *testing.T, samples []WaterSample, err error) {
				assert := assert.New(t)
				assert.True(wqerrors.CheckError(err, wqerrors.CodeDataFormat))
				assert.Nil(samples)
			},
		},
		{
			name: "dataset has malformed values",
			path: "./testdata/bad_value.csv",
			expect: func(t *testing.T, samples []WaterSample, err error) {
				assert := assert.New(t)
				assert.True(wqerrors.CheckError(err, wqerrors.CodeDataFormat))
				assert.Contains(err.Error(), "2 malformed rows")
				assert.Contains(err.Error(), "column Solids")
				assert.Contains(err.Error(), "invalid label")
				assert.Nil(samples)
			},
		},
		{
			name:    "dataset read with wrong separator",
			path:    "./testdata/semicolon.csv",
			options: []Option{WithSeparator(',')},
			expect: func(t *testing.T, samples []WaterSample, err error) {
				assert := assert.New(t)
				assert.True(wqerrors.CheckError(err, wqerrors.CodeDataFormat))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			samples, err := New(tc.options...).Load(tc.path)
			tc.expect(t, samples, err)
		})
	}
}

func TestStorage_Decode(t *testing.T) {
	header := strings.Join(append(append([]string{}, FeatureNames...), LabelName), ",")

	tests := []struct {
		name   string
		data   string
		expect func(t *testing.T, samples []WaterSample, err error)
	}{
		{
			name: "empty input",
			data: "",
			expect: func(t *testing.T, samples []WaterSample, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Empty(samples)
			},
		},
		{
			name: "label in float form",
			data: header + "\n7,200,15000,8,350,400,10,3,2,1.0\n",
			expect: func(t *testing.T, samples []WaterSample, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Len(samples, 1)
				assert.True(samples[0].Potability)
			},
		},
		{
			name: "missing label",
			data: header + "\n7,200,15000,8,350,400,10,3,2,\n",
			expect: func(t *testing.T, samples []WaterSample, err error) {
				assert := assert.New(t)
				assert.True(wqerrors.CheckError(err, wqerrors.CodeDataFormat))
				assert.Contains(err.Error(), "missing label")
			},
		},
		{
			name: "infinite measurement",
			data: header + "\n7,200,1e400,8,350,400,10,3,2,0\n",
			expect: func(t *testing.T, samples []WaterSample, err error) {
				assert := assert.New(t)
				assert.True(wqerrors.CheckError(err, wqerrors.CodeDataFormat))
			},
		},
		{
			name: "too many malformed rows are truncated",
			data: func() string {
				var b strings.Builder
				b.WriteString(header + "\n")
				for i := 0; i < MaxReportedRowErrors+5; i++ {
					b.WriteString("x,200,15000,8,350,400,10,3,2,0\n")
				}
				return b.String()
			}(),
			expect: func(t *testing.T, samples []WaterSample, err error) {
				assert := assert.New(t)
				assert.True(wqerrors.CheckError(err, wqerrors.CodeDataFormat))
				assert.Contains(err.Error(), fmt.Sprintf("%d malformed rows", MaxReportedRowErrors+5))
				assert.Contains(err.Error(), "and 5 more rows")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			samples, err := New().Decode(strings.NewReader(tc.data))
			tc.expect(t, samples, err)
		})
	}
}

func TestWaterSample_Features(t *testing.T) {
	assert := assert.New(t)
	features := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	sample := NewWaterSample(features, true)
	assert.Equal(features, sample.Features())
	assert.Equal(9.0, sample.Turbidity)
	assert.False(sample.HasMissing())

	sample.Sulfate = math.NaN()
	assert.True(sample.HasMissing())
}
