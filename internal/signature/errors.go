package signature

import (
	"errors"
	"fmt"
)

// DefinitionError reports a malformed signature at registration time. These
// are permanent construction failures surfaced at plugin-load time; a
// signature that fails construction never exists.
type DefinitionError struct {
	// Field names the offending declaration slot ("inputs.seqs",
	// "outputs", "builtin_args", ...).
	Field string

	// Message is a human-readable description.
	Message string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CallErrorCode categorizes per-invocation failures.
type CallErrorCode string

const (
	// ErrCodeVisualizationInput indicates a visualization was passed as an
	// input.
	ErrCodeVisualizationInput CallErrorCode = "VISUALIZATION_INPUT"

	// ErrCodeArtifactMismatch indicates an artifact of the wrong type was
	// passed.
	ErrCodeArtifactMismatch CallErrorCode = "ARTIFACT_MISMATCH"

	// ErrCodeMetadataMismatch indicates metadata was passed for an
	// incompatible parameter type.
	ErrCodeMetadataMismatch CallErrorCode = "METADATA_MISMATCH"

	// ErrCodePrimitiveMismatch indicates a primitive value outside the
	// declared parameter type.
	ErrCodePrimitiveMismatch CallErrorCode = "PRIMITIVE_MISMATCH"

	// ErrCodeUnsolvedOutput indicates variable resolution left a
	// non-concrete output type.
	ErrCodeUnsolvedOutput CallErrorCode = "UNSOLVED_OUTPUT"

	// ErrCodeViewMismatch indicates a produced view's runtime type differs
	// from the declared view type.
	ErrCodeViewMismatch CallErrorCode = "VIEW_MISMATCH"

	// ErrCodeUnknownParameter indicates a name passed to parameter decoding
	// that the signature does not declare.
	ErrCodeUnknownParameter CallErrorCode = "UNKNOWN_PARAMETER"
)

// CallError reports a per-invocation failure, surfaced to the caller of the
// action. Nothing at this layer retries or recovers.
type CallError struct {
	Code CallErrorCode

	// Name is the input, parameter, or output the failure is about.
	Name string

	Message string
}

func (e *CallError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Name, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCallError reports whether err is a CallError with the given code.
// Uses errors.As to handle wrapped errors.
func IsCallError(err error, code CallErrorCode) bool {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// IsDefinitionError reports whether err is a registration-time failure.
func IsDefinitionError(err error) bool {
	var de *DefinitionError
	return errors.As(err, &de)
}
