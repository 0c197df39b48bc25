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


package indexer

import "errors"

var (
	// ErrRepositoryRequired is returned when a Builder is created without a repository.
	ErrRepositoryRequired = errors.New("index repository is required")

	// ErrProviderRequired is returned when a Builder is created without an AI provider.
	ErrProviderRequired = errors.New("ai provider is required")

	// ErrNoEmbedders is returned when the provider offers no embedding models.
	ErrNoEmbedders = errors.New("provider has no embedders")

	// ErrNoFragments is returned when chunking the corpus produced nothing to index.
	ErrNoFragments = errors.New("no fragments produced from corpus")

	// ErrEmbeddingFailed is returned when every embedding model in the
	// fallback chain failed to embed the corpus.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrCountMismatch is returned under the fail mismatch policy when the
	// embedding service returns a different number of vectors than texts sent.
	ErrCountMismatch = errors.New("embedding count mismatch")

	// ErrInvalidMaxAttempts is returned when retry is configured with zero or negative attempts.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than zero")
)
