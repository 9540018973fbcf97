package ods

// Version constants for the slot model and generator.
const (
	// ModelVersion is the slot model schema version.
	ModelVersion = "1"

	// GeneratorVersion is the odsgen version stamped into generated headers.
	GeneratorVersion = "0.1.0"
)
