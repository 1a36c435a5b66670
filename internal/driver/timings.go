package driver

import (
	"encoding/json"
	"fmt"

	"tagcopy/internal/diag"
	"tagcopy/internal/observ"
	"tagcopy/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic attaches the timing report as an OBS6001 info
// diagnostic whose single note carries the JSON payload. It bypasses the
// bag limit.
func appendTimingDiagnostic(bag *diag.Bag, file source.FileID, path string, report observ.Report) {
	if bag == nil {
		return
	}
	payload := timingPayload{Kind: "file", Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	entry := diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS),
		Primary:  source.Span{File: file},
		Notes:    []diag.Note{{Span: source.Span{File: file}, Msg: string(data)}},
	}
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(0)
	overflow.Add(entry)
	bag.Merge(overflow)
}
