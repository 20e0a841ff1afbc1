package ir

// Version constants for the spec schema and compiler.
const (
	// SpecVersion is the model-spec schema version.
	SpecVersion = "1"

	// CompilerVersion is the schedc compiler version.
	CompilerVersion = "0.1.0"
)
