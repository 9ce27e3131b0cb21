// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package classifier maps document text to one of the known document types
// using cached prototype embeddings, with a high-precision keyword override
// for W-2 forms.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/aelsaeed/doc6/internal/doctype"
	"github.com/aelsaeed/doc6/internal/observability"
)

// ErrEmbedderUnavailable is returned when classification needs the embedding
// provider and none is configured. Callers get an explicit failure, never a
// default guess.
var ErrEmbedderUnavailable = errors.New("embedding provider unavailable")

// maxSampleChars bounds the text prefix sent to the embedding provider so
// inference cost stays flat regardless of document size.
const maxSampleChars = 512

// w2OverrideConfidence is the fixed confidence assigned by the keyword
// override path.
const w2OverrideConfidence = 0.95

// Result is the outcome of a classification call.
type Result struct {
	Label      string
	Confidence float64
	Reasoning  string
}

// Classifier scores document text against the prototype set. It holds no
// mutable state after construction and is safe for concurrent use.
type Classifier struct {
	prototypes *doctype.PrototypeSet
	embedder   doctype.Embedder

	// W-2 markers for the override path. The primary markers are distinctive
	// W-2 vocabulary; "copy b" is the secondary confirming marker that must
	// also be present.
	w2Markers      []string
	w2Confirmation string

	observer *observability.StandardObserver
}

// New creates a classifier over a prebuilt prototype set. embedder may be nil,
// in which case only the keyword override can succeed and every other call
// fails with ErrEmbedderUnavailable.
func New(embedder doctype.Embedder, prototypes *doctype.PrototypeSet) *Classifier {
	return &Classifier{
		prototypes: prototypes,
		embedder:   embedder,
		w2Markers: []string{
			"w-2", "wage and tax statement", "form w-2",
			"employee's social security number", "employer identification number",
		},
		w2Confirmation: "copy b",
	}
}

// SetObserver sets the observability component.
func (c *Classifier) SetObserver(observer *observability.StandardObserver) {
	c.observer = observer
}

// Classify returns the document type label and a confidence in [0,1].
// Identical inputs always yield identical results: the keyword override is a
// pure text scan, and the embedding path breaks similarity ties by the
// canonical label order, picking the first maximal score.
func (c *Classifier) Classify(ctx context.Context, text string) (Result, error) {
	var finishTiming func(bool, map[string]interface{})
	if c.observer != nil {
		finishTiming = c.observer.StartTiming("classifier", "classify", "")
	}

	result, err := c.classify(ctx, text)
	if finishTiming != nil {
		finishTiming(err == nil, map[string]interface{}{
			"label":      result.Label,
			"confidence": result.Confidence,
		})
	}
	return result, err
}

func (c *Classifier) classify(ctx context.Context, text string) (Result, error) {
	lower := strings.ToLower(text)

	// High-precision override: distinctive W-2 vocabulary plus the confirming
	// marker short-circuits the embedding path entirely.
	if c.matchesW2Override(lower) {
		label := doctype.W2
		return Result{
			Label:      label,
			Confidence: w2OverrideConfidence,
			Reasoning:  c.GenerateReasoning(text, label),
		}, nil
	}

	if c.embedder == nil {
		return Result{}, ErrEmbedderUnavailable
	}

	sample := sampleText(text)

	textVec, err := c.embedder.Embed(ctx, sample)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrEmbedderUnavailable, err)
	}

	var best Result
	haveBest := false
	for _, proto := range c.prototypes.All() {
		score := cosineSimilarity(textVec, proto.Embedding)
		// Strict comparison keeps the first maximal score, so ties resolve in
		// canonical label order.
		if !haveBest || score > best.Confidence {
			best = Result{Label: proto.Label, Confidence: score}
			haveBest = true
		}
	}
	if !haveBest {
		return Result{}, errors.New("prototype set is empty")
	}

	best.Reasoning = c.GenerateReasoning(text, best.Label)
	return best, nil
}

// sampleText bounds the prefix sent to the embedding provider, backing off to
// a rune boundary so a multi-byte character is never cut in half.
func sampleText(text string) string {
	if len(text) <= maxSampleChars {
		return text
	}
	cut := maxSampleChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// matchesW2Override reports whether lowered text contains at least one W-2
// marker and the confirming marker.
func (c *Classifier) matchesW2Override(lowered string) bool {
	if !strings.Contains(lowered, c.w2Confirmation) {
		return false
	}
	for _, marker := range c.w2Markers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// GenerateReasoning reports which of the configured keywords for label were
// found verbatim in the text, or a generic statement if none were.
func (c *Classifier) GenerateReasoning(text, label string) string {
	lower := strings.ToLower(text)

	var found []string
	for _, kw := range doctype.Keywords[label] {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}

	if len(found) > 0 {
		return fmt.Sprintf("The document contains keywords such as %s, which are typical for %s documents.",
			strings.Join(found, ", "), label)
	}
	return fmt.Sprintf("The document was classified as %s based on its content.", label)
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
