// Copyright 2025 Lexibase Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import "errors"

var (
	// ErrCountMismatch is returned when fragment and vector counts differ.
	ErrCountMismatch = errors.New("fragment and vector counts differ")

	// ErrDimensionMismatch is returned when vectors of different
	// dimensionality are mixed within one index, or a query vector does
	// not match the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyIndex is returned when building an index from zero fragments.
	ErrEmptyIndex = errors.New("index has no fragments")
)
