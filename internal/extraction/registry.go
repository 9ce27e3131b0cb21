// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extraction

// Registry maps document type labels to specialized extractors. Unregistered
// labels resolve to the generic fallback extractor.
type Registry struct {
	extractors map[string]Extractor
	generic    Extractor
}

// NewRegistry creates a registry with the given generic fallback.
func NewRegistry(generic Extractor) *Registry {
	return &Registry{
		extractors: make(map[string]Extractor),
		generic:    generic,
	}
}

// Register binds a document type label to an extractor.
func (r *Registry) Register(label string, ex Extractor) {
	r.extractors[label] = ex
}

// Get returns the extractor for a label, or the generic fallback when none is
// registered.
func (r *Registry) Get(label string) Extractor {
	if ex, ok := r.extractors[label]; ok {
		return ex
	}
	return r.generic
}

// Labels returns the registered type labels.
func (r *Registry) Labels() []string {
	labels := make([]string, 0, len(r.extractors))
	for label := range r.extractors {
		labels = append(labels, label)
	}
	return labels
}
