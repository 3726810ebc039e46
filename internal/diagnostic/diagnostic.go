// Package diagnostic defines the warning/error records that flow out of
// extraction and generation without aborting the build.
package diagnostic

import "github.com/fuzdev/fuzcss/internal/location"

// Level is the severity of a Diagnostic.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Phase identifies which stage of the pipeline produced a Diagnostic.
type Phase string

const (
	PhaseExtraction Phase = "extraction"
	PhaseGeneration Phase = "generation"
)

// Diagnostic is either an extraction diagnostic (carries one SourceLocation)
// or a generation diagnostic (carries a class name and an optional ordered
// list of locations; a nil Locations means "from additional_classes config,
// not from source").
type Diagnostic struct {
	Phase      Phase
	Level      Level
	Message    string
	Suggestion string

	// Extraction-phase field.
	Location *location.SourceLocation

	// Generation-phase fields.
	ClassName string
	Locations []location.SourceLocation
}

// Extraction builds an extraction-phase diagnostic.
func Extraction(level Level, message string, loc location.SourceLocation) Diagnostic {
	l := loc
	return Diagnostic{
		Phase:    PhaseExtraction,
		Level:    level,
		Message:  message,
		Location: &l,
	}
}

// Generation builds a generation-phase diagnostic. locations may be nil.
func Generation(level Level, message, className string, locations []location.SourceLocation, suggestion string) Diagnostic {
	return Diagnostic{
		Phase:      PhaseGeneration,
		Level:      level,
		Message:    message,
		ClassName:  className,
		Locations:  locations,
		Suggestion: suggestion,
	}
}

// IsError reports whether this diagnostic is an error-level diagnostic.
func (d Diagnostic) IsError() bool { return d.Level == LevelError }
