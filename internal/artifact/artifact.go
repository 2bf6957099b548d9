// Package artifact provides the runtime value shapes the signature layer
// works with: artifacts, deferred artifact proxies, keyed result collections,
// metadata, and visualizations, plus the view transformation entry point.
package artifact

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/nereid-bio/nereid/internal/provenance"
	"github.com/nereid-bio/nereid/internal/types"
)

// Artifact is a typed, identified piece of data. Identity is the persistent
// UUID, not the content.
type Artifact struct {
	id       uuid.UUID
	t        types.Type
	view     any
	viewType reflect.Type
	prov     provenance.Node
}

// FromView constructs an artifact from a produced physical view. This is the
// construction contract the signature layer consumes when materializing
// outputs.
func FromView(t types.Type, view any, viewType reflect.Type, prov provenance.Node) (*Artifact, error) {
	if !types.Concrete(t) {
		return nil, fmt.Errorf("cannot instantiate an artifact at non-concrete type %s", t)
	}
	return &Artifact{
		id:       uuid.New(),
		t:        t,
		view:     view,
		viewType: viewType,
		prov:     prov,
	}, nil
}

// UUID returns the artifact's persistent identity token.
func (a *Artifact) UUID() uuid.UUID { return a.id }

// TypeOf implements types.Typed.
func (a *Artifact) TypeOf() types.Type { return a.t }

// Provenance returns the provenance node the artifact was created under.
func (a *Artifact) Provenance() provenance.Node { return a.prov }

// ViewType returns the physical type of the artifact's current view.
func (a *Artifact) ViewType() reflect.Type { return a.viewType }

// View transforms the artifact's payload into the requested physical view
// type, recording each transformation step through log. An artifact already
// held in the requested view passes through without a transformation event.
func (a *Artifact) View(target reflect.Type, log provenance.TransformLog) (any, error) {
	if a.viewType == target {
		return a.view, nil
	}
	fn, ok := lookupTransformer(a.viewType, target)
	if !ok {
		return nil, fmt.Errorf("no transformer from %s to %s for artifact of type %s",
			a.viewType, target, a.t)
	}
	out, err := fn(a.view)
	if err != nil {
		return nil, fmt.Errorf("transform %s to %s: %w", a.viewType, target, err)
	}
	if log != nil {
		log(a.viewType.String(), target.String())
	}
	return out, nil
}

func (a *Artifact) String() string {
	return fmt.Sprintf("<artifact %s type=%s>", a.id, a.t)
}

// Proxy is a deferred reference to an artifact produced by an action that has
// not finished yet. It carries the declared type so inference can proceed
// without resolving the value.
type Proxy struct {
	t types.Type
}

// NewProxy returns a deferred artifact reference at the given type.
func NewProxy(t types.Type) *Proxy { return &Proxy{t: t} }

// TypeOf implements types.Typed.
func (p *Proxy) TypeOf() types.Type { return p.t }

// Visualization is a rendered visualization result. It satisfies the
// visualization marker type and nothing else.
type Visualization struct {
	id uuid.UUID
}

// NewVisualization returns a fresh visualization value.
func NewVisualization() *Visualization {
	return &Visualization{id: uuid.New()}
}

// UUID returns the visualization's identity token.
func (v *Visualization) UUID() uuid.UUID { return v.id }

// TypeOf implements types.Typed.
func (v *Visualization) TypeOf() types.Type { return types.Visualization }

// TransformFunc converts a value between two physical view types.
type TransformFunc func(any) (any, error)

type transformKey struct {
	from reflect.Type
	to   reflect.Type
}

var transformers = map[transformKey]TransformFunc{}

// RegisterTransformer registers a view transformation. Registration happens
// at plugin-load time, before any call executes; the registry is read-only
// afterwards.
func RegisterTransformer(from, to reflect.Type, fn TransformFunc) {
	transformers[transformKey{from: from, to: to}] = fn
}

func lookupTransformer(from, to reflect.Type) (TransformFunc, bool) {
	fn, ok := transformers[transformKey{from: from, to: to}]
	return fn, ok
}
