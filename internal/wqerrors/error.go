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

package wqerrors

import (
	"errors"
	"fmt"
)

// Code classifies the failure of a workflow stage.
type Code int

const (
	// CodeUnknown is used for errors raised outside the taxonomy.
	CodeUnknown Code = iota

	// CodeNotFound represents the input path is missing.
	CodeNotFound

	// CodeDataFormat represents a malformed row or column.
	CodeDataFormat

	// CodeInvalidArgument represents a bad split fraction or prediction input.
	CodeInvalidArgument

	// CodeTraining represents a degenerate training set.
	CodeTraining
)

// String returns the name of code.
func (c Code) String() string {
	switch c {
	case CodeNotFound:
		return "NotFoundError"
	case CodeDataFormat:
		return "DataFormatError"
	case CodeInvalidArgument:
		return "InvalidArgumentError"
	case CodeTraining:
		return "TrainingError"
	default:
		return "UnknownError"
	}
}

// common errors
var (
	ErrEmptyDataset = errors.New("empty dataset")
	ErrEmptyTestSet = errors.New("empty test set")
	ErrSingleClass  = errors.New("training set contains a single label class")
)

type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s]%s: %s", e.Code, e.Message, e.cause)
	}

	return fmt.Sprintf("[%s]%s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(code Code, msg string) *Error {
	return &Error{
		Code:    code,
		Message: msg,
	}
}

func Newf(code Code, format string, a ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
	}
}

// Wrapf annotates err with code and message, err stays reachable by errors.Is.
func Wrapf(err error, code Code, format string, a ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
		cause:   err,
	}
}

// CodeOf returns the code of the first *Error in the chain of err.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return CodeUnknown
}

func CheckError(err error, code Code) bool {
	if err == nil {
		return false
	}

	return CodeOf(err) == code
}
