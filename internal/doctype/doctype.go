// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package doctype holds the fixed set of document types the classifier can
// produce, together with the semantic prototypes used for similarity scoring.
package doctype

import (
	"context"
	"fmt"
)

// Labels of the supported document types. The slice order is the canonical
// enumeration order: similarity ties are broken by the first maximal score in
// this order, so classification stays deterministic across runs.
const (
	K1                 = "K1 (Schedule K-1)"
	K2                 = "K2 (Schedule K-2)"
	W1                 = "W1 (Form W-1)"
	W2                 = "W2 (Form W-2)"
	TaxReturn          = "Tax Return"
	ShareholderNotice  = "Shareholder Meeting Notice"
	ProxyStatement     = "Proxy Statement"
	FinancialStatement = "Financial Statement"
	SECFiling          = "SEC Filing"
	LoanAgreement      = "Loan Agreement"
	InvestmentAgmt     = "Investment Agreement"
)

// Labels lists every supported type in canonical order.
var Labels = []string{
	K1, K2, W1, W2, TaxReturn,
	ShareholderNotice, ProxyStatement, FinancialStatement,
	SECFiling, LoanAgreement, InvestmentAgmt,
}

// Descriptions are the reference texts embedded once at startup and compared
// against document text by cosine similarity.
var Descriptions = map[string]string{
	K1:                 "A Schedule K-1 (Form 1065) document detailing a partner's share of income, deductions, credits, and other financial items in a partnership.",
	K2:                 "A Schedule K-2 document providing supplemental information for international tax reporting related to a partnership.",
	W1:                 "A Form W-1 document reporting wage and tax information for employees.",
	W2:                 "A Form W-2 wage and tax statement document reporting an employee's annual wages and taxes withheld.",
	TaxReturn:          "A tax return document, such as Form 1040, reporting an individual's income and tax obligations.",
	ShareholderNotice:  "A notice announcing an upcoming shareholder meeting, often including voting information.",
	ProxyStatement:     "A proxy statement providing information for shareholders to vote on company matters.",
	FinancialStatement: "A financial statement including balance sheets, income statements, or cash flow statements.",
	SECFiling:          "An SEC filing, such as Form 10-K or 10-Q, reporting financial information to the SEC.",
	LoanAgreement:      "A loan agreement outlining terms between a borrower and lender.",
	InvestmentAgmt:     "An investment agreement detailing the terms of an investment between parties.",
}

// Keywords are per-type marker phrases, matched case-insensitively. They feed
// the classification reasoning and, for W-2, the high-precision override.
var Keywords = map[string][]string{
	K1:                 {"schedule k-1", "form 1065", "partner's share", "partnership", "tax year"},
	K2:                 {"schedule k-2", "supplemental information", "international tax"},
	W1:                 {"form w-1", "wage and tax statement"},
	W2:                 {"w-2", "wage and tax statement", "form w-2", "employee's federal tax return", "employer identification number", "social security wages"},
	TaxReturn:          {"tax return", "form 1040", "income tax"},
	ShareholderNotice:  {"shareholder meeting", "annual meeting", "proxy statement"},
	ProxyStatement:     {"proxy statement", "voting", "board of directors"},
	FinancialStatement: {"financial statement", "balance sheet", "income statement", "cash flow"},
	SECFiling:          {"sec filing", "form 10-k", "form 10-q", "edgar"},
	LoanAgreement:      {"loan agreement", "borrower", "lender", "terms and conditions"},
	InvestmentAgmt:     {"investment agreement", "investor", "equity", "terms of investment"},
}

// Embedder produces an embedding vector for a piece of text. Implementations
// live outside this package (e.g. the Gemini-backed embedder); prototype
// construction and classification only ever see this interface.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Prototype is the reference representation of one document type.
type Prototype struct {
	Label       string
	Description string
	Keywords    []string
	Embedding   []float32
}

// PrototypeSet is the process-lifetime collection of prototypes, built once
// at startup and shared read-only across concurrent classification calls.
// Prototypes keep the canonical label order.
type PrototypeSet struct {
	prototypes []Prototype
}

// BuildPrototypes embeds every type description exactly once and returns the
// immutable prototype set. An embedding failure aborts construction: a set
// with missing vectors would silently skew every later classification.
func BuildPrototypes(ctx context.Context, embedder Embedder) (*PrototypeSet, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is nil")
	}

	prototypes := make([]Prototype, 0, len(Labels))
	for _, label := range Labels {
		desc := Descriptions[label]
		vec, err := embedder.Embed(ctx, desc)
		if err != nil {
			return nil, fmt.Errorf("embedding prototype %q: %w", label, err)
		}
		prototypes = append(prototypes, Prototype{
			Label:       label,
			Description: desc,
			Keywords:    Keywords[label],
			Embedding:   vec,
		})
	}

	return &PrototypeSet{prototypes: prototypes}, nil
}

// All returns the prototypes in canonical order. Callers must not mutate the
// returned slice.
func (s *PrototypeSet) All() []Prototype {
	return s.prototypes
}

// Len returns the number of prototypes in the set.
func (s *PrototypeSet) Len() int {
	return len(s.prototypes)
}
