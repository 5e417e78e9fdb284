// Package scenetest provides a recording fake scene adapter for tests.
package scenetest

import (
	"github.com/eric-ce/terrameasure/internal/scene"
	"github.com/eric-ce/terrameasure/pkg/geometry"
)

// ElementKind names the element families the fake tracks
type ElementKind string

const (
	Marker ElementKind = "marker"
	Line   ElementKind = "line"
	Label  ElementKind = "label"
)

// Element is the recorded state of one created scene element
type Element struct {
	Kind        ElementKind
	Points      []geometry.Vector3
	Pos         geometry.Vector3
	Text        string
	Highlighted bool
}

// Fake implements scene.Adapter against in-memory state. Picking and
// pointer-to-world answers are injected per screen position.
type Fake struct {
	Elements map[scene.ElementID]*Element
	Removed  []scene.ElementID

	Picks  map[scene.ScreenPos]scene.PickHit
	Worlds map[scene.ScreenPos]geometry.Vector3

	// HeightFunc answers SampleHeight; nil means sampling unavailable
	HeightFunc func(x, z float64) (float64, bool)

	CameraSuppressed bool

	nextID scene.ElementID
}

// New creates an empty fake adapter
func New() *Fake {
	return &Fake{
		Elements: make(map[scene.ElementID]*Element),
		Picks:    make(map[scene.ScreenPos]scene.PickHit),
		Worlds:   make(map[scene.ScreenPos]geometry.Vector3),
	}
}

// SetWorld injects a PointerToWorld answer for a screen position
func (f *Fake) SetWorld(p scene.ScreenPos, world geometry.Vector3) {
	f.Worlds[p] = world
}

// SetPick injects a PickTopmost answer for a screen position
func (f *Fake) SetPick(p scene.ScreenPos, hit scene.PickHit) {
	f.Picks[p] = hit
}

// Count returns how many live elements of a kind exist
func (f *Fake) Count(kind ElementKind) int {
	n := 0
	for _, el := range f.Elements {
		if el.Kind == kind {
			n++
		}
	}
	return n
}

// LabelTexts returns the text of every live label
func (f *Fake) LabelTexts() []string {
	texts := make([]string, 0)
	for _, el := range f.Elements {
		if el.Kind == Label {
			texts = append(texts, el.Text)
		}
	}
	return texts
}

func (f *Fake) SampleHeight(x, z float64) (float64, bool) {
	if f.HeightFunc == nil {
		return 0, false
	}
	return f.HeightFunc(x, z)
}

func (f *Fake) PickTopmost(p scene.ScreenPos) (scene.PickHit, bool) {
	hit, ok := f.Picks[p]
	return hit, ok
}

func (f *Fake) PickAllAt(p scene.ScreenPos, limit int) []scene.PickHit {
	if hit, ok := f.Picks[p]; ok && limit > 0 {
		return []scene.PickHit{hit}
	}
	return nil
}

func (f *Fake) PointerToWorld(p scene.ScreenPos) (geometry.Vector3, bool) {
	world, ok := f.Worlds[p]
	return world, ok
}

func (f *Fake) CreateMarker(pos geometry.Vector3) scene.ElementID {
	return f.add(&Element{Kind: Marker, Pos: pos})
}

func (f *Fake) CreateLine(points []geometry.Vector3) scene.ElementID {
	if len(points) < 2 {
		return scene.NoElement
	}
	return f.add(&Element{Kind: Line, Points: append([]geometry.Vector3(nil), points...)})
}

func (f *Fake) CreateLabel(text string, pos geometry.Vector3) scene.ElementID {
	return f.add(&Element{Kind: Label, Text: text, Pos: pos})
}

func (f *Fake) SetMarker(id scene.ElementID, pos geometry.Vector3) {
	if el, ok := f.Elements[id]; ok {
		el.Pos = pos
	}
}

func (f *Fake) SetLine(id scene.ElementID, points []geometry.Vector3) {
	if el, ok := f.Elements[id]; ok {
		el.Points = append([]geometry.Vector3(nil), points...)
	}
}

func (f *Fake) SetLabel(id scene.ElementID, text string, pos geometry.Vector3) {
	if el, ok := f.Elements[id]; ok {
		el.Text = text
		el.Pos = pos
	}
}

func (f *Fake) SetHighlight(id scene.ElementID, on bool) {
	if el, ok := f.Elements[id]; ok {
		el.Highlighted = on
	}
}

func (f *Fake) Remove(id scene.ElementID) {
	if _, ok := f.Elements[id]; ok {
		delete(f.Elements, id)
		f.Removed = append(f.Removed, id)
	}
}

func (f *Fake) SuppressCameraControls(suppress bool) {
	f.CameraSuppressed = suppress
}

func (f *Fake) add(el *Element) scene.ElementID {
	f.nextID++
	f.Elements[f.nextID] = el
	return f.nextID
}
