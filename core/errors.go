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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidFragment indicates a Fragment failed validation.
	ErrInvalidFragment = errors.New("invalid fragment")

	// ErrEmptyDocumentID indicates the document ID field is empty.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrEmptyFragmentText indicates the fragment Text field is empty.
	ErrEmptyFragmentText = errors.New("fragment text cannot be empty")

	// ErrInvalidSource indicates an invalid Source value.
	ErrInvalidSource = errors.New("invalid answer source")
)
