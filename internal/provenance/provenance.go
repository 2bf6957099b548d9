// Package provenance defines the provenance collaborator consumed by the
// signature layer, an in-memory capture implementation, and the decoder for
// replayed argument records.
package provenance

import (
	"fmt"

	"github.com/nereid-bio/nereid/internal/types"
)

// TransformLog records one artifact-to-view transformation event. The
// signature layer obtains one log per input and invokes it synchronously with
// each transformation, so a record is never attached across a scheduling
// boundary.
type TransformLog func(from, to string)

// Node is a forked provenance handle attached to one output artifact.
type Node interface {
	// OutputName is the output slot this node was forked for.
	OutputName() string
}

// Recorder is the provenance contract a call's audit log must satisfy.
// All methods are invoked synchronously within a single call's processing.
type Recorder interface {
	// AddInput records the raw value bound to an input, before any view
	// transformation.
	AddInput(name string, value any)

	// AddParameter records a parameter value together with its declared type.
	AddParameter(name string, t types.Type, value any)

	// TransformationRecorder returns the log used for the named input's
	// transformation events.
	TransformationRecorder(name string) TransformLog

	// Fork derives the provenance node for the named output.
	Fork(name string) Node
}

// InputRecord is one recorded input binding.
type InputRecord struct {
	Name  string
	Value any
}

// ParameterRecord is one recorded parameter binding.
type ParameterRecord struct {
	Name  string
	Type  types.Type
	Value any
}

// TransformRecord is one recorded transformation event.
type TransformRecord struct {
	Input string
	From  string
	To    string
}

// Capture is an in-memory Recorder. It preserves the order in which inputs,
// parameters, and transformation events were recorded.
//
// Capture carries no synchronization: one Capture belongs to one call.
type Capture struct {
	Inputs     []InputRecord
	Parameters []ParameterRecord
	Transforms []TransformRecord
	ForkNames  []string
}

// NewCapture returns an empty in-memory provenance log.
func NewCapture() *Capture {
	return &Capture{}
}

// AddInput implements Recorder.
func (c *Capture) AddInput(name string, value any) {
	c.Inputs = append(c.Inputs, InputRecord{Name: name, Value: value})
}

// AddParameter implements Recorder.
func (c *Capture) AddParameter(name string, t types.Type, value any) {
	c.Parameters = append(c.Parameters, ParameterRecord{Name: name, Type: t, Value: value})
}

// TransformationRecorder implements Recorder.
func (c *Capture) TransformationRecorder(name string) TransformLog {
	return func(from, to string) {
		c.Transforms = append(c.Transforms, TransformRecord{Input: name, From: from, To: to})
	}
}

// Fork implements Recorder.
func (c *Capture) Fork(name string) Node {
	c.ForkNames = append(c.ForkNames, name)
	return &forkNode{parent: c, output: name}
}

type forkNode struct {
	parent *Capture
	output string
}

func (n *forkNode) OutputName() string { return n.output }

func (n *forkNode) String() string {
	return fmt.Sprintf("provenance fork %q", n.output)
}
