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
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect func(t *testing.T, err error)
	}{
		{
			name: "new error",
			err:  New(CodeNotFound, "foo"),
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "[NotFoundError]foo")
				assert.True(CheckError(err, CodeNotFound))
				assert.False(CheckError(err, CodeTraining))
			},
		},
		{
			name: "formatted error",
			err:  Newf(CodeDataFormat, "row %d", 3),
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "[DataFormatError]row 3")
				assert.Equal(CodeDataFormat, CodeOf(err))
			},
		},
		{
			name: "wrapped cause is reachable",
			err:  Wrapf(ErrSingleClass, CodeTraining, "fit"),
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "[TrainingError]fit: training set contains a single label class")
				assert.True(errors.Is(err, ErrSingleClass))
			},
		},
		{
			name: "code survives stage wrapping",
			err:  pkgerrors.Wrapf(New(CodeInvalidArgument, "bar"), "stage %s", "split"),
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.True(CheckError(err, CodeInvalidArgument))
			},
		},
		{
			name: "plain error has unknown code",
			err:  errors.New("baz"),
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.Equal(CodeUnknown, CodeOf(err))
				assert.Equal("UnknownError", CodeOf(err).String())
			},
		},
		{
			name: "nil error",
			err:  nil,
			expect: func(t *testing.T, err error) {
				assert.False(t, CheckError(err, CodeUnknown))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.expect(t, tc.err)
		})
	}
}
