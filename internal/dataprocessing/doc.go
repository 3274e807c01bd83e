// Package dataprocessing reads tabular qPCR datasets into the measurement
// records the analysis pipeline consumes.
//
// The expected CSV layout has required columns Sample_ID, Gene, Condition
// and Ct_Value, plus optional Biological_Rep, Technical_Rep and
// Well_Position. Column names match exactly; a required column missing from
// the header is fatal (qpcr.SchemaError), while individual malformed rows
// pass through with their raw Ct text preserved so the validator can reject
// and count them per reason.
package dataprocessing
