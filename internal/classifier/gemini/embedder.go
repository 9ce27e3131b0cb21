// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package gemini implements the embedding provider on top of the Google
// Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-004"

// Embedder calls the Gemini embedding endpoint. The zero value is not usable;
// construct with New.
type Embedder struct {
	apiKey string
	model  string
}

// New creates a Gemini-backed embedder. model falls back to DefaultModel when
// empty.
func New(apiKey, model string) *Embedder {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Embedder{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
	}
}

// Model returns the configured embedding model name.
func (e *Embedder) Model() string { return e.model }

// Embed returns the embedding vector for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.apiKey == "" {
		return nil, errors.New("gemini: API key is empty")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	defer cl.Close()

	em := cl.EmbeddingModel(e.model)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini: embedding content: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, errors.New("gemini: empty embedding response")
	}

	return resp.Embedding.Values, nil
}
