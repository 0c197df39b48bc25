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


package storage

import "errors"

var (
	// ErrIndexUnavailable indicates no published index exists, or the
	// persisted index cannot be read. Queries must surface this as a
	// failure, never as a silent empty result.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrCorruptIndex indicates the persisted fragment and vector tables
	// are not aligned, or a row failed to decode.
	ErrCorruptIndex = errors.New("persisted index is corrupt")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")
)
