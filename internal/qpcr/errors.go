package qpcr

import "fmt"

// SchemaError reports a required input column missing from the dataset.
// It is fatal: the run aborts before any row is processed.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input is missing required columns: %v", e.Missing)
}

// ConfigurationError reports that the configured reference gene or control
// condition has no matching data for a gene that needs it. It is fatal:
// the run aborts with no partial results.
type ConfigurationError struct {
	Gene    string // gene that cannot be analyzed; empty when global
	Missing string // what was absent: the reference gene or control condition
	Detail  string
}

func (e *ConfigurationError) Error() string {
	if e.Gene == "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Missing, e.Detail)
	}
	return fmt.Sprintf("configuration error for gene %q: %s: %s", e.Gene, e.Missing, e.Detail)
}
