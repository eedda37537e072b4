package driver

import (
	"encoding/json"
	"fmt"

	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/observ"
	"vipyrdocs/internal/source"
)

type timingPayload struct {
	Kind      string               `json:"kind"`
	Files     int                  `json:"files"`
	CacheHits int                  `json:"cache_hits"`
	TotalMS   float64              `json:"total_ms"`
	Phases    []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic добавляет ObsTimings даже если Bag уже заполнен до лимита.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "check"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms, %d files, %d cached",
		payload.Kind, payload.TotalMS, payload.Files, payload.CacheHits)

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	noFile := source.Span{File: source.NoFile}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, noFile, msg).WithNote(noFile, string(data))

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
