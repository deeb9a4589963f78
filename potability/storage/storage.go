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

//go:generate mockgen -destination mocks/storage_mock.go -source storage.go -package mocks

package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/hashicorp/go-multierror"

	"github.com/waterlab/potability/internal/wqerrors"
	logger "github.com/waterlab/potability/internal/wqlog"
)

const (
	// DefaultSeparator is default field separator.
	DefaultSeparator = ','

	// MaxReportedRowErrors is maximum number of bad rows reported in one error.
	MaxReportedRowErrors = 10
)

// Storage is the interface used for loading dataset.
type Storage interface {
	// Load reads water samples from the dataset file at path.
	Load(string) ([]WaterSample, error)

	// Decode reads water samples from reader.
	Decode(io.Reader) ([]WaterSample, error)
}

type storage struct {
	separator rune
	hasHeader bool
}

// Option is a functional option for configuring the storage.
type Option func(s *storage)

// WithSeparator sets the field separator.
func WithSeparator(separator rune) Option {
	return func(s *storage) {
		s.separator = separator
	}
}

// WithHeader sets whether the first row is a header.
func WithHeader(hasHeader bool) Option {
	return func(s *storage) {
		s.hasHeader = hasHeader
	}
}

// New returns a new Storage instance.
func New(options ...Option) Storage {
	s := &storage{
		separator: DefaultSeparator,
		hasHeader: true,
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Load reads water samples from the dataset file at path.
func (s *storage) Load(path string) ([]WaterSample, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, wqerrors.Wrapf(err, wqerrors.CodeNotFound, "dataset %s not found", path)
		}

		return nil, wqerrors.Wrapf(err, wqerrors.CodeUnknown, "open dataset %s", path)
	}
	defer file.Close()

	samples, err := s.Decode(file)
	if err != nil {
		return nil, err
	}

	logger.WithDataset(path, len(samples)).Info("dataset loaded")
	return samples, nil
}

// Decode reads water samples from reader.
func (s *storage) Decode(r io.Reader) ([]WaterSample, error) {
	reader := csv.NewReader(r)
	reader.Comma = s.separator
	reader.FieldsPerRecord = ColumnCount
	reader.TrimLeadingSpace = true

	if s.hasHeader {
		header, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return []WaterSample{}, nil
			}

			return nil, wqerrors.Wrapf(err, wqerrors.CodeDataFormat, "read header")
		}

		s.checkHeader(header)
	}

	var records []*record
	if err := gocsv.UnmarshalCSVWithoutHeaders(reader, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []WaterSample{}, nil
		}

		return nil, wqerrors.Wrapf(err, wqerrors.CodeDataFormat, "read records")
	}

	var errs *multierror.Error
	samples := make([]WaterSample, 0, len(records))
	for i, r := range records {
		sample, err := parseRecord(r)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}

		samples = append(samples, sample)
	}

	if errs != nil {
		return nil, wqerrors.Wrapf(truncate(errs), wqerrors.CodeDataFormat, "%d malformed rows", errs.Len())
	}

	return samples, nil
}

// checkHeader warns when header differs from the declared columns, columns are
// mapped by position so a different header does not fail loading.
func (s *storage) checkHeader(header []string) {
	expected := append(append([]string{}, FeatureNames...), LabelName)
	for i, name := range header {
		if !strings.EqualFold(strings.TrimSpace(name), expected[i]) {
			logger.With("column", i+1, "header", name, "expected", expected[i]).Warn("header differs from schema, columns are mapped by position")
		}
	}
}

func parseRecord(r *record) (WaterSample, error) {
	features := make([]float64, len(FeatureNames))
	for i, v := range r.features() {
		f, err := parseMeasurement(v)
		if err != nil {
			return WaterSample{}, fmt.Errorf("column %s: %w", FeatureNames[i], err)
		}

		features[i] = f
	}

	potability, err := parseLabel(r.Potability)
	if err != nil {
		return WaterSample{}, fmt.Errorf("column %s: %w", LabelName, err)
	}

	return NewWaterSample(features, potability), nil
}

// parseMeasurement parses a measurement, empty cell is missing and becomes NaN.
func parseMeasurement(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return math.NaN(), nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}

	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("measurement %q out of range", v)
	}

	return f, nil
}

// parseLabel accepts 0/1/true/false and the float forms 0.0/1.0.
func parseLabel(v string) (bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, errors.New("missing label")
	}

	if b, err := strconv.ParseBool(v); err == nil {
		return b, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || (f != 0 && f != 1) {
		return false, fmt.Errorf("invalid label %q", v)
	}

	return f == 1, nil
}

func truncate(errs *multierror.Error) error {
	if errs.Len() <= MaxReportedRowErrors {
		return errs.ErrorOrNil()
	}

	truncated := &multierror.Error{Errors: errs.Errors[:MaxReportedRowErrors]}
	return multierror.Append(truncated, fmt.Errorf("and %d more rows", errs.Len()-MaxReportedRowErrors))
}
