// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package classifier

import (
	"fmt"

	"github.com/aelsaeed/doc6/internal/doctype"
)

// typeSummaries holds the per-type summary texts shown to end users.
var typeSummaries = map[string]string{
	doctype.K1:                 "The document provided is a Schedule K-1 (Form 1065). It includes detailed information about the partner's share of income, deductions, credits, and other financial items related to the partnership. This matches the characteristics of a financial K-1 document, typically prepared for partners in a partnership.",
	doctype.K2:                 "The document provided is a Schedule K-2, which includes supplemental information for international tax reporting related to a partnership. This matches the characteristics of a financial K-2 document, typically prepared for partners with international tax obligations.",
	doctype.W1:                 "The document provided is a Form W-1, which reports wage and tax information. This matches the characteristics of a W-1 document, typically prepared for employees.",
	doctype.W2:                 "The document provided is a Form W-2 Wage and Tax Statement. It includes tax information such as the employee's wages, tips, and other compensation, as well as federal, state, and local taxes withheld. This document is prepared by employers for employees and is used for filing tax returns.",
	doctype.TaxReturn:          "The document provided is a Tax Return, likely a Form 1040, which reports an individual's income and tax obligations. This matches the characteristics of a tax return document.",
	doctype.ShareholderNotice:  "The document provided is a Shareholder Meeting Notice, which announces an upcoming meeting for shareholders. This matches the characteristics of a shareholder meeting notice.",
	doctype.ProxyStatement:     "The document provided is a Proxy Statement, which provides information for shareholders to vote on company matters. This matches the characteristics of a proxy statement.",
	doctype.FinancialStatement: "The document provided is a Financial Statement, which includes financial data such as balance sheets or income statements. This matches the characteristics of a financial statement.",
	doctype.SECFiling:          "The document provided is an SEC Filing, such as a Form 10-K or 10-Q, which reports financial information to the SEC. This matches the characteristics of an SEC filing.",
	doctype.LoanAgreement:      "The document provided is a Loan Agreement, which outlines the terms between a borrower and lender. This matches the characteristics of a loan agreement.",
	doctype.InvestmentAgmt:     "The document provided is an Investment Agreement, which details the terms of an investment between parties. This matches the characteristics of an investment agreement.",
}

// GenerateSummary returns a human-readable summary for a classified type.
func GenerateSummary(label string) string {
	if summary, ok := typeSummaries[label]; ok {
		return summary
	}
	return fmt.Sprintf("The document is classified as %s based on its content.", label)
}
