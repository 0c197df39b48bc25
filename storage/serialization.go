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

import (
	"github.com/lexibase/lexibase/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalFragment serializes a Fragment to bytes.
func MarshalFragment(fragment *core.Fragment) []byte {
	buf := make([]byte, core.FragmentMUS.Size(*fragment))
	core.FragmentMUS.Marshal(*fragment, buf)
	return buf
}

// UnmarshalFragment deserializes a Fragment from bytes.
func UnmarshalFragment(data []byte) (*core.Fragment, error) {
	fragment, _, err := core.FragmentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &fragment, nil
}

// MarshalVector serializes a vector to bytes.
func MarshalVector(vector []float32) []byte {
	buf := make([]byte, core.VectorMUS.Size(vector))
	core.VectorMUS.Marshal(vector, buf)
	return buf
}

// UnmarshalVector deserializes a vector from bytes.
func UnmarshalVector(data []byte) ([]float32, error) {
	vector, _, err := core.VectorMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return vector, nil
}

// MarshalIndexMeta serializes an IndexMeta to bytes.
func MarshalIndexMeta(meta *core.IndexMeta) []byte {
	buf := make([]byte, core.IndexMetaMUS.Size(*meta))
	core.IndexMetaMUS.Marshal(*meta, buf)
	return buf
}

// UnmarshalIndexMeta deserializes an IndexMeta from bytes.
func UnmarshalIndexMeta(data []byte) (*core.IndexMeta, error) {
	meta, _, err := core.IndexMetaMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}
