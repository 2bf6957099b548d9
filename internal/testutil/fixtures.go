// Package testutil provides shared dummy fixtures for signature, invocation,
// and manifest tests: a small set of semantic types, physical view types with
// registered transformers, and ready-made signatures for each action kind.
package testutil

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/nereid-bio/nereid/internal/artifact"
	"github.com/nereid-bio/nereid/internal/provenance"
	"github.com/nereid-bio/nereid/internal/signature"
	"github.com/nereid-bio/nereid/internal/types"
)

// The dummy semantic types shared across test suites.
var (
	IntSequence1 = types.Sem("IntSequence1")
	IntSequence2 = types.Sem("IntSequence2")
	SingleInt    = types.Sem("SingleInt")
	Mapping      = types.Sem("Mapping")
)

// IntList is the canonical physical view of an int sequence.
type IntList []int

// IntCSV is a serialized comma-separated view of an int sequence.
type IntCSV string

// IntValue is the physical view of a single int artifact.
type IntValue int

// StringDict is the physical view of a mapping artifact.
type StringDict map[string]string

var (
	IntListView    = reflect.TypeOf(IntList(nil))
	IntCSVView     = reflect.TypeOf(IntCSV(""))
	IntValueView   = reflect.TypeOf(IntValue(0))
	StringDictView = reflect.TypeOf(StringDict(nil))
)

func init() {
	artifact.RegisterTransformer(IntListView, IntCSVView, func(v any) (any, error) {
		ints := v.(IntList)
		parts := make([]string, len(ints))
		for i, n := range ints {
			parts[i] = strconv.Itoa(n)
		}
		return IntCSV(strings.Join(parts, ",")), nil
	})
	artifact.RegisterTransformer(IntCSVView, IntListView, func(v any) (any, error) {
		csv := string(v.(IntCSV))
		if csv == "" {
			return IntList{}, nil
		}
		var ints IntList
		for _, part := range strings.Split(csv, ",") {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("parse int sequence element %q: %w", part, err)
			}
			ints = append(ints, n)
		}
		return ints, nil
	})
}

// IntSequence returns an artifact of the given semantic type holding values
// in the canonical IntList view.
func IntSequence(t types.Type, values ...int) *artifact.Artifact {
	a, err := artifact.FromView(t, IntList(values), IntListView, OutputNode("source"))
	if err != nil {
		panic(err)
	}
	return a
}

// OutputNode returns a detached provenance node for fixture artifacts.
func OutputNode(name string) provenance.Node {
	return provenance.NewCapture().Fork(name)
}

// ConcatenateIntsSignature builds the standard method fixture: three int
// sequence inputs, two int parameters, one concatenated output.
func ConcatenateIntsSignature() *signature.Signature {
	c := signature.Callable{
		Name: "concatenate_ints",
		Params: []signature.Formal{
			signature.Arg("ints1", IntListView),
			signature.Arg("ints2", IntListView),
			signature.Arg("ints3", IntListView),
			signature.Arg("int1", reflect.TypeOf(0)),
			signature.Arg("int2", reflect.TypeOf(0)),
		},
		Returns:    []reflect.Type{IntListView},
		HasReturns: true,
	}
	sig, err := signature.NewMethod(c,
		map[string]types.Type{
			"ints1": types.U(IntSequence1, IntSequence2),
			"ints2": IntSequence1,
			"ints3": IntSequence2,
		},
		map[string]types.Type{
			"int1": types.Int,
			"int2": types.Int,
		},
		[]signature.Output{{Name: "concatenated_ints", Type: IntSequence1}},
		signature.Descriptions{},
	)
	if err != nil {
		panic(err)
	}
	return sig
}

// TypeMatchSignature builds a method whose input and output share one type
// variable constrained to the two int sequence types. The output type is
// solved per call from the observed input.
func TypeMatchSignature() *signature.Signature {
	v := types.TypeMatch("T", IntSequence1, IntSequence2)
	c := signature.Callable{
		Name: "identity_with_metadata",
		Params: []signature.Formal{
			signature.Arg("ints", IntListView),
		},
		Returns:    []reflect.Type{IntListView},
		HasReturns: true,
	}
	sig, err := signature.NewMethod(c,
		map[string]types.Type{"ints": v},
		nil,
		[]signature.Output{{Name: "out", Type: v}},
		signature.Descriptions{},
	)
	if err != nil {
		panic(err)
	}
	return sig
}

// SplitIntsSignature builds a method with two outputs sharing the input's
// type variable.
func SplitIntsSignature() *signature.Signature {
	v := types.TypeMatch("T", IntSequence1, IntSequence2)
	c := signature.Callable{
		Name: "split_ints",
		Params: []signature.Formal{
			signature.Arg("ints", IntListView),
		},
		Returns:    []reflect.Type{IntListView, IntListView},
		HasReturns: true,
	}
	sig, err := signature.NewMethod(c,
		map[string]types.Type{"ints": v},
		nil,
		[]signature.Output{
			{Name: "left", Type: v},
			{Name: "right", Type: v},
		},
		signature.Descriptions{},
	)
	if err != nil {
		panic(err)
	}
	return sig
}

// CollectionSignature builds a method taking and producing keyed collections
// of single ints.
func CollectionSignature() *signature.Signature {
	c := signature.Callable{
		Name: "dict_of_ints",
		Params: []signature.Formal{
			signature.Arg("ints", IntValueView),
		},
		Returns:    []reflect.Type{IntValueView},
		HasReturns: true,
	}
	sig, err := signature.NewMethod(c,
		map[string]types.Type{"ints": types.Coll(SingleInt)},
		nil,
		[]signature.Output{{Name: "output", Type: types.Coll(SingleInt)}},
		signature.Descriptions{},
	)
	if err != nil {
		panic(err)
	}
	return sig
}

// VisualizerSignature builds the standard visualizer fixture: one int
// sequence input and no return annotation.
func VisualizerSignature() *signature.Signature {
	c := signature.Callable{
		Name: "most_common_viz",
		Params: []signature.Formal{
			signature.Arg("outputDir", reflect.TypeOf("")),
			signature.Arg("ints", IntListView),
		},
		Returns:    []reflect.Type{nil},
		HasReturns: true,
	}
	sig, err := signature.NewVisualizer(c,
		map[string]types.Type{"ints": types.U(IntSequence1, IntSequence2)},
		nil,
		signature.Descriptions{},
	)
	if err != nil {
		panic(err)
	}
	return sig
}

// PipelineSignature builds the standard pipeline fixture: no view
// annotations anywhere and a leading context argument.
func PipelineSignature() *signature.Signature {
	c := signature.Callable{
		Name: "resumable_pipeline",
		Params: []signature.Formal{
			signature.Arg("ctx", nil),
			signature.Arg("int_sequence", nil),
			signature.OptArg("num_partitions", nil, nil),
		},
	}
	sig, err := signature.NewPipeline(c,
		map[string]types.Type{"int_sequence": types.U(IntSequence1, IntSequence2)},
		map[string]types.Type{"num_partitions": types.Int},
		[]signature.Output{
			{Name: "ints", Type: types.Coll(SingleInt)},
			{Name: "visualization", Type: types.Visualization},
		},
		signature.Descriptions{},
	)
	if err != nil {
		panic(err)
	}
	return sig
}
