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

import (
	"fmt"
	"strings"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//
// NOT validated:
//   - Text (whitespace-only documents are legal and simply produce zero
//     fragments during chunking)
//   - Title and SourceLabel (optional, loader-provided)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentID)
	}

	return nil
}

// ValidateFragment validates a Fragment according to domain rules.
//
// Validation rules:
//   - Text must not be empty or whitespace-only
//   - DocumentID must not be empty
//
// NOT validated:
//   - Id (0 is a valid dense fragment id)
func ValidateFragment(fragment *Fragment) error {
	if fragment == nil {
		return fmt.Errorf("%w: fragment is nil", ErrInvalidFragment)
	}

	if strings.TrimSpace(fragment.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFragment, ErrEmptyFragmentText)
	}

	if fragment.DocumentID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFragment, ErrEmptyDocumentID)
	}

	return nil
}

// ValidateSource validates that a Source has a valid value.
func ValidateSource(source Source) error {
	if source != SourceKB && source != SourceWeb {
		return fmt.Errorf("%w: value %d", ErrInvalidSource, source)
	}
	return nil
}
