package provenance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nereid-bio/nereid/internal/types"
)

func TestCapture_RecordsInOrder(t *testing.T) {
	c := NewCapture()
	c.AddInput("ints1", "a")
	c.AddInput("ints2", "b")
	c.AddParameter("n", types.Int, 3)

	assert.Equal(t, []InputRecord{
		{Name: "ints1", Value: "a"},
		{Name: "ints2", Value: "b"},
	}, c.Inputs)
	assert.Equal(t, []ParameterRecord{
		{Name: "n", Type: types.Int, Value: 3},
	}, c.Parameters)
}

func TestCapture_TransformationRecorder(t *testing.T) {
	c := NewCapture()
	log1 := c.TransformationRecorder("ints1")
	log2 := c.TransformationRecorder("ints2")

	log1("CSV", "List")
	log2("CSV", "List")
	log1("List", "Array")

	assert.Equal(t, []TransformRecord{
		{Input: "ints1", From: "CSV", To: "List"},
		{Input: "ints2", From: "CSV", To: "List"},
		{Input: "ints1", From: "List", To: "Array"},
	}, c.Transforms)
}

func TestCapture_Fork(t *testing.T) {
	c := NewCapture()
	left := c.Fork("left")
	right := c.Fork("right")

	assert.Equal(t, "left", left.OutputName())
	assert.Equal(t, "right", right.OutputName())
	assert.Equal(t, []string{"left", "right"}, c.ForkNames)
}
