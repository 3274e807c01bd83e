package qpcr

import (
	"log/slog"
	"math"
	"strings"
)

// MaxCt is the highest cycle-threshold value accepted as a real detection.
// qPCR instruments run 40 cycles; a Ct beyond that is a non-detection
// artifact, not a measurement.
const MaxCt = 40.0

// Validate screens raw measurements and partitions them into usable rows and
// a rejection report. Individual bad rows are excluded and counted, never
// fatal; the caller decides whether the rejection rate is acceptable.
func Validate(measurements []Measurement, logger *slog.Logger) ([]Measurement, ValidationReport) {
	if logger == nil {
		logger = slog.Default()
	}

	report := ValidationReport{
		TotalRows: len(measurements),
		ByReason:  make(map[RejectReason]int),
	}

	valid := make([]Measurement, 0, len(measurements))
	for _, m := range measurements {
		if reason, ok := rejectReason(m); !ok {
			report.ByReason[reason]++
			report.Rejected = append(report.Rejected, ValidatedMeasurement{
				Measurement: m,
				Valid:       false,
				Reason:      reason,
			})
			continue
		}
		valid = append(valid, m)
	}

	report.ValidRows = len(valid)
	report.RejectedRows = len(report.Rejected)
	if len(report.ByReason) == 0 {
		report.ByReason = nil
	}

	if report.RejectedRows > 0 {
		logger.Warn("excluded invalid measurements",
			slog.Int("rejected", report.RejectedRows),
			slog.Int("total", report.TotalRows))
	}

	return valid, report
}

// rejectReason returns the first validation failure for a measurement, or
// ok=true when the row is usable.
func rejectReason(m Measurement) (RejectReason, bool) {
	if strings.TrimSpace(m.SampleID) == "" ||
		strings.TrimSpace(m.Gene) == "" ||
		strings.TrimSpace(m.Condition) == "" {
		return ReasonMissingField, false
	}

	if math.IsNaN(m.Ct) {
		raw := strings.TrimSpace(m.CtText)
		switch {
		case raw == "":
			// No raw text and no value: the Ct cell was empty.
			return ReasonMissingField, false
		case strings.EqualFold(raw, "nan"):
			return ReasonCtNaN, false
		default:
			return ReasonNonNumericCt, false
		}
	}

	if m.Ct <= 0 {
		return ReasonCtNotPositive, false
	}
	if m.Ct > MaxCt {
		return ReasonCtAboveLimit, false
	}
	return "", true
}
