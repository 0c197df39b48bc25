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


package mock

import "github.com/lexibase/lexibase/ai"

// Default mock model identities. The fallback intentionally has a
// different dimensionality, as real fallback providers may.
const (
	PrimaryModel      = "mock-embed-primary"
	PrimaryDimension  = 384
	FallbackModel     = "mock-embed-fallback"
	FallbackDimension = 768
)

// Provider is a test double for ai.Provider. It aggregates mock embedder
// and generator instances.
type Provider struct {
	embedders []ai.Embedder
	generator *Generator
}

// NewProvider creates a mock provider with a primary and a fallback
// embedder of different dimensions, plus a default generator.
//
// Returns ai.Provider interface for consistency with production
// constructors. Use Primary()/Fallback()/Gen() to access concrete types
// for test assertions.
func NewProvider() *Provider {
	return &Provider{
		embedders: []ai.Embedder{
			NewEmbedder(PrimaryModel, PrimaryDimension),
			NewEmbedder(FallbackModel, FallbackDimension),
		},
		generator: NewGenerator(),
	}
}

// NewProviderWithServices creates a mock provider with custom mock
// services. This allows full control over the behavior of each service.
func NewProviderWithServices(generator *Generator, embedders ...*Embedder) *Provider {
	list := make([]ai.Embedder, len(embedders))
	for i, e := range embedders {
		list[i] = e
	}
	return &Provider{embedders: list, generator: generator}
}

// Embedders returns the ordered mock embedders, primary first.
func (p *Provider) Embedders() []ai.Embedder {
	return p.embedders
}

// Generator returns the mock generator.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// Close is a no-op for mock provider.
func (p *Provider) Close() error {
	return nil
}

// Primary returns the underlying primary mock embedder for test assertions.
func (p *Provider) Primary() *Embedder {
	if len(p.embedders) == 0 {
		return nil
	}
	return p.embedders[0].(*Embedder)
}

// Fallback returns the underlying fallback mock embedder, or nil when the
// provider was built without one.
func (p *Provider) Fallback() *Embedder {
	if len(p.embedders) < 2 {
		return nil
	}
	return p.embedders[1].(*Embedder)
}

// Gen returns the underlying mock generator for test assertions.
func (p *Provider) Gen() *Generator {
	return p.generator
}
