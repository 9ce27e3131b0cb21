// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// DebugObserver prints step-by-step progress of a document run, indented by
// nesting depth.
type DebugObserver struct {
	*StandardObserver
	indent int
}

// NewDebugObserver creates a debug observer.
func NewDebugObserver(writer io.Writer) *DebugObserver {
	return &DebugObserver{
		StandardObserver: NewStandardObserver(ObservabilityDebug, writer),
	}
}

// StartStep begins a processing step and returns its completion function.
func (d *DebugObserver) StartStep(component, step, filePath string) func(success bool, details string) {
	start := time.Now()
	fmt.Fprintf(d.writer, "%s-> %s: %s (%s)\n", strings.Repeat("  ", d.indent), component, step, filePath)
	d.indent++

	return func(success bool, details string) {
		d.indent--
		duration := time.Since(start)
		indentStr := strings.Repeat("  ", d.indent)

		if success {
			fmt.Fprintf(d.writer, "%sok %s: %s completed (%dms) %s\n",
				indentStr, component, step, duration.Milliseconds(), details)
		} else {
			fmt.Fprintf(d.writer, "%sFAIL %s: %s failed (%dms) %s\n",
				indentStr, component, step, duration.Milliseconds(), details)
		}
	}
}

// LogDetail logs a detail within the current step.
func (d *DebugObserver) LogDetail(component, detail string) {
	fmt.Fprintf(d.writer, "%s   %s: %s\n", strings.Repeat("  ", d.indent), component, detail)
}

// LogMetric logs a metric value within the current step.
func (d *DebugObserver) LogMetric(component, metric string, value interface{}) {
	fmt.Fprintf(d.writer, "%s   %s: %s = %v\n", strings.Repeat("  ", d.indent), component, metric, value)
}
