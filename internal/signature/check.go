package signature

import (
	"fmt"

	"github.com/nereid-bio/nereid/internal/artifact"
	"github.com/nereid-bio/nereid/internal/types"
)

// CheckTypes validates that every signature-ordered argument is a member of
// its declared symbolic type. A nil value is exempt exactly when the slot's
// default is an explicit nil. Violations raise one of four offender-specific
// errors so the caller can tell a visualization-as-input from a wrong-type
// artifact, incompatible metadata, or a plain primitive mismatch.
func (s *Signature) CheckTypes(args map[string]any) error {
	for _, name := range s.order {
		spec, _ := s.orderedSpec(name)
		value := args[name]

		if types.Contains(spec.Type(), value) {
			continue
		}
		if value == nil && spec.HasDefault() && spec.Default() == nil {
			continue
		}

		switch v := value.(type) {
		case *artifact.Visualization:
			return &CallError{
				Code: ErrCodeVisualizationInput,
				Name: name,
				Message: "received a visualization as an argument; " +
					"visualizations may not be used as inputs",
			}
		case *artifact.Artifact:
			return &CallError{
				Code: ErrCodeArtifactMismatch,
				Name: name,
				Message: fmt.Sprintf("requires an argument of type %v; an argument of type %v was passed",
					spec.Type(), v.TypeOf()),
			}
		case *artifact.Metadata:
			return &CallError{
				Code: ErrCodeMetadataMismatch,
				Name: name,
				Message: fmt.Sprintf("received metadata as an argument, which is incompatible with parameter type %v",
					spec.Type()),
			}
		default:
			return &CallError{
				Code: ErrCodePrimitiveMismatch,
				Name: name,
				Message: fmt.Sprintf("received %v as an argument, which is incompatible with parameter type %v",
					value, spec.Type()),
			}
		}
	}
	return nil
}
