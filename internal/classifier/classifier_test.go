// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/aelsaeed/doc6/internal/doctype"
)

// stubEmbedder maps text prefixes to fixed vectors so similarity outcomes are
// fully controlled by the test.
type stubEmbedder struct {
	vectors     map[string][]float32
	fallbackVec []float32
	err         error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	for prefix, v := range s.vectors {
		if strings.HasPrefix(text, prefix) {
			return v, nil
		}
	}
	if s.fallbackVec != nil {
		return s.fallbackVec, nil
	}
	return []float32{0, 0, 1}, nil
}

func buildSet(t *testing.T, embedder doctype.Embedder) *doctype.PrototypeSet {
	t.Helper()
	set, err := doctype.BuildPrototypes(context.Background(), embedder)
	if err != nil {
		t.Fatalf("building prototypes: %v", err)
	}
	return set
}

const w2SampleText = `Form W-2 Wage and Tax Statement 2023
a Employee's social security number 123-45-6789
Copy B - To Be Filed With Employee's FEDERAL Tax Return`

func TestClassify_W2KeywordOverride(t *testing.T) {
	// No embedder configured: only the override path can classify, which is
	// exactly what this input should trigger.
	c := New(nil, nil)

	result, err := c.Classify(context.Background(), w2SampleText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Label != doctype.W2 {
		t.Errorf("expected %q, got %q", doctype.W2, result.Label)
	}
	if result.Confidence != 0.95 {
		t.Errorf("expected override confidence 0.95, got %v", result.Confidence)
	}
	if result.Reasoning == "" {
		t.Error("expected reasoning to be populated")
	}
}

func TestClassify_OverrideNeedsConfirmation(t *testing.T) {
	// The W-2 markers alone are not enough without the confirming marker.
	c := New(nil, nil)

	text := "Form W-2 Wage and Tax Statement for the employee"
	_, err := c.Classify(context.Background(), text)
	if !errors.Is(err, ErrEmbedderUnavailable) {
		t.Fatalf("expected ErrEmbedderUnavailable, got %v", err)
	}
}

func TestClassify_NoEmbedder(t *testing.T) {
	c := New(nil, nil)

	_, err := c.Classify(context.Background(), "a loan agreement between borrower and lender")
	if !errors.Is(err, ErrEmbedderUnavailable) {
		t.Fatalf("expected ErrEmbedderUnavailable, got %v", err)
	}
}

func TestClassify_EmbeddingPath(t *testing.T) {
	// The K-1 prototype gets a distinctive vector; a document embedding to the
	// same vector must classify as K-1 with similarity 1.
	embedder := &stubEmbedder{
		vectors: map[string][]float32{
			doctype.Descriptions[doctype.K1]: {1, 0, 0},
			"partnership income":             {1, 0, 0},
		},
		fallbackVec: []float32{0, 1, 0},
	}
	c := New(embedder, buildSet(t, embedder))

	result, err := c.Classify(context.Background(), "partnership income for the partner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Label != doctype.K1 {
		t.Errorf("expected %q, got %q", doctype.K1, result.Label)
	}
	if result.Confidence < 0.999 {
		t.Errorf("expected similarity ~1, got %v", result.Confidence)
	}
}

func TestClassify_TieBreaksByCanonicalOrder(t *testing.T) {
	// Every prototype embeds to the same vector, so every similarity ties; the
	// first label in canonical order must win, deterministically.
	embedder := &stubEmbedder{fallbackVec: []float32{1, 1, 1}}
	c := New(embedder, buildSet(t, embedder))

	for i := 0; i < 5; i++ {
		result, err := c.Classify(context.Background(), "ambiguous document text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Label != doctype.Labels[0] {
			t.Fatalf("run %d: expected first canonical label %q, got %q", i, doctype.Labels[0], result.Label)
		}
	}
}

// recordingEmbedder captures the exact text handed to the provider.
type recordingEmbedder struct {
	stubEmbedder
	lastText string
}

func (r *recordingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	r.lastText = text
	return r.stubEmbedder.Embed(ctx, text)
}

func TestClassify_SampleCutsOnRuneBoundary(t *testing.T) {
	// 511 ASCII bytes followed by 3-byte runes: a byte cut at 512 would split
	// the first rune and send invalid UTF-8 to the provider.
	text := strings.Repeat("a", 511) + "日本語の書類"

	embedder := &recordingEmbedder{stubEmbedder: stubEmbedder{fallbackVec: []float32{1, 1, 1}}}
	c := New(embedder, buildSet(t, &stubEmbedder{}))

	if _, err := c.Classify(context.Background(), text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embedder.lastText) > 512 {
		t.Errorf("sample exceeds the bound: %d bytes", len(embedder.lastText))
	}
	if !utf8.ValidString(embedder.lastText) {
		t.Error("sample sent to the provider is not valid UTF-8")
	}
	if want := strings.Repeat("a", 511); embedder.lastText != want {
		t.Errorf("expected the cut to back off to the last rune boundary, got %d bytes", len(embedder.lastText))
	}
}

func TestClassify_EmbedderErrorWrapped(t *testing.T) {
	failing := &stubEmbedder{err: errors.New("network down")}
	c := New(failing, buildSet(t, &stubEmbedder{}))

	_, err := c.Classify(context.Background(), "some document")
	if !errors.Is(err, ErrEmbedderUnavailable) {
		t.Fatalf("expected wrapped ErrEmbedderUnavailable, got %v", err)
	}
}

func TestGenerateReasoning_ListsFoundKeywords(t *testing.T) {
	c := New(nil, nil)

	reasoning := c.GenerateReasoning("This wage and tax statement covers social security wages.", doctype.W2)
	if !strings.Contains(reasoning, "wage and tax statement") {
		t.Errorf("expected found keyword in reasoning, got %q", reasoning)
	}
	if !strings.Contains(reasoning, "social security wages") {
		t.Errorf("expected second keyword in reasoning, got %q", reasoning)
	}
}

func TestGenerateReasoning_NoKeywords(t *testing.T) {
	c := New(nil, nil)

	reasoning := c.GenerateReasoning("nothing relevant here", doctype.LoanAgreement)
	if !strings.Contains(reasoning, doctype.LoanAgreement) {
		t.Errorf("expected generic reasoning to mention the label, got %q", reasoning)
	}
}

func TestGenerateSummary(t *testing.T) {
	summary := GenerateSummary(doctype.W2)
	if !strings.Contains(summary, "W-2") {
		t.Errorf("expected W-2 summary, got %q", summary)
	}

	unknown := GenerateSummary("Mystery Type")
	if !strings.Contains(unknown, "Mystery Type") {
		t.Errorf("expected fallback summary to name the label, got %q", unknown)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"mismatched lengths", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
