// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"

	"github.com/aelsaeed/doc6/internal/classifier"
	"github.com/aelsaeed/doc6/internal/classifier/gemini"
	"github.com/aelsaeed/doc6/internal/config"
	"github.com/aelsaeed/doc6/internal/doctype"
	"github.com/aelsaeed/doc6/internal/extraction"
	"github.com/aelsaeed/doc6/internal/extraction/w2"
	"github.com/aelsaeed/doc6/internal/template"
)

// Build assembles a ready pipeline from configuration: embedder, prototype
// set, classifier, and the extractor registry with the W-2 extractor bound to
// its label and the generic extractor as fallback.
//
// When no API key is configured the classifier runs without an embedder: the
// W-2 keyword override still works, everything else fails explicitly.
func Build(ctx context.Context, cfg *config.Config) (*Pipeline, error) {
	cl, err := buildClassifier(ctx, cfg)
	if err != nil {
		return nil, err
	}

	registry, err := BuildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	return New(cl, registry), nil
}

func buildClassifier(ctx context.Context, cfg *config.Config) (*classifier.Classifier, error) {
	apiKey := cfg.APIKey()
	if !cfg.Classifier.Enabled || apiKey == "" {
		return classifier.New(nil, nil), nil
	}

	embedder := gemini.New(apiKey, cfg.Classifier.Model)
	prototypes, err := doctype.BuildPrototypes(ctx, embedder)
	if err != nil {
		return nil, fmt.Errorf("building prototype set: %w", err)
	}
	return classifier.New(embedder, prototypes), nil
}

// BuildRegistry creates the extractor registry for the configured layout.
// Unregistered document types fall back to the generic extractor.
func BuildRegistry(cfg *config.Config) (*extraction.Registry, error) {
	layoutName := cfg.Extraction.Layout
	if layoutName == "" {
		layoutName = template.StandardLayout
	}

	formLayout := template.W2Layout(layoutName)
	if cfg.Extraction.LayoutFile != "" {
		layouts, err := template.LoadW2Overrides(cfg.Extraction.LayoutFile)
		if err != nil {
			return nil, fmt.Errorf("loading layout overrides: %w", err)
		}
		if custom, ok := layouts[layoutName]; ok {
			formLayout = custom
		}
	}

	registry := extraction.NewRegistry(extraction.NewGenericExtractor())
	registry.Register(doctype.W2, w2.NewWithLayout(formLayout))
	return registry, nil
}
