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


// Package search provides the in-memory vector index and similarity search.
//
// The Index type stores L2-normalized fragment vectors and performs
// brute-force inner-product search, which equals cosine similarity for
// unit vectors. Brute force is the correctness baseline at the corpus
// scales involved (thousands of fragments); the index is immutable once
// built and safe for concurrent searches.
package search
