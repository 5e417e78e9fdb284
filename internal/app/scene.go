package app

import (
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/eric-ce/terrameasure/internal/scene"
	"github.com/eric-ce/terrameasure/pkg/geometry"
)

const (
	markerRadiusPx = 6.0
	markerPickPx   = 10.0
	linePickPx     = 6.0
	labelFontSize  = 16.0
	labelPadding   = 4.0
	labelLiftPx    = 14.0 // labels float this many pixels above their anchor
)

var (
	markerColor    = rl.NewColor(255, 200, 60, 255)
	markerHotColor = rl.NewColor(255, 240, 160, 255)
	lineColor      = rl.NewColor(80, 200, 255, 255)
	lineHotColor   = rl.NewColor(180, 235, 255, 255)
	labelBorder    = rl.NewColor(80, 200, 255, 255)
	labelHotBorder = rl.Yellow
)

type sceneElement struct {
	kind        scene.Kind
	points      []geometry.Vector3 // lines
	pos         geometry.Vector3   // markers and labels
	text        string             // labels
	highlighted bool
}

// SceneView is the raylib rendering backend for measurement elements. It
// retains elements between frames, draws them in screen space over the 3D
// terrain each frame, and answers the editor's picking and projection
// queries against the same projected geometry it draws.
type SceneView struct {
	app      *App
	elements map[scene.ElementID]*sceneElement
	order    []scene.ElementID // creation order, newest last
	nextID   scene.ElementID
}

func NewSceneView(app *App) *SceneView {
	return &SceneView{
		app:      app,
		elements: make(map[scene.ElementID]*sceneElement),
	}
}

func (s *SceneView) alloc(el *sceneElement) scene.ElementID {
	s.nextID++
	id := s.nextID
	s.elements[id] = el
	s.order = append(s.order, id)
	return id
}

// SampleHeight reports the terrain height under (x, z)
func (s *SceneView) SampleHeight(x, z float64) (float64, bool) {
	t := s.app.Terrain.terrain
	if t == nil {
		return 0, false
	}
	return t.SampleHeight(x, z)
}

// PointerToWorld casts a ray through the screen position and marches it
// against the heightfield. The hit is snapped onto the terrain surface.
func (s *SceneView) PointerToWorld(p scene.ScreenPos) (geometry.Vector3, bool) {
	t := s.app.Terrain.terrain
	if t == nil {
		return geometry.Vector3{}, false
	}

	ray := rl.GetMouseRay(rl.Vector2{X: float32(p.X), Y: float32(p.Y)}, s.app.Camera.camera)
	origin := geometry.NewVector3(float64(ray.Position.X), float64(ray.Position.Y), float64(ray.Position.Z))
	dir := geometry.NewVector3(float64(ray.Direction.X), float64(ray.Direction.Y), float64(ray.Direction.Z))

	return t.RaycastSurface(origin, dir, float64(s.app.Terrain.size)*4)
}

// pickCandidate is an internal picking result before priority ordering
type pickCandidate struct {
	hit      scene.PickHit
	kind     scene.Kind
	distSq   float64
	sequence int // insertion order position, larger is newer
}

// kindPriority orders overlapping hits: markers beat labels beat lines
func kindPriority(k scene.Kind) int {
	switch k {
	case scene.KindMarker:
		return 0
	case scene.KindLabel:
		return 1
	}
	return 2
}

func (s *SceneView) pickAll(p scene.ScreenPos) []pickCandidate {
	var found []pickCandidate
	for seq, id := range s.order {
		el, ok := s.elements[id]
		if !ok {
			continue
		}
		switch el.kind {
		case scene.KindMarker:
			sp, vis := s.project(el.pos)
			if !vis {
				continue
			}
			d := p.DistSq(scene.ScreenPos{X: float64(sp.X), Y: float64(sp.Y)})
			if d <= markerPickPx*markerPickPx {
				found = append(found, pickCandidate{
					hit:      scene.PickHit{ID: id, World: el.pos, HasWorld: true},
					kind:     el.kind,
					distSq:   d,
					sequence: seq,
				})
			}

		case scene.KindLabel:
			sp, vis := s.project(el.pos)
			if !vis {
				continue
			}
			rect := s.labelRect(el.text, sp)
			if rl.CheckCollisionPointRec(rl.Vector2{X: float32(p.X), Y: float32(p.Y)}, rect) {
				found = append(found, pickCandidate{
					hit:      scene.PickHit{ID: id, World: el.pos, HasWorld: true},
					kind:     el.kind,
					distSq:   0,
					sequence: seq,
				})
			}

		case scene.KindLine:
			world, d, ok := s.nearestOnPolyline(el.points, p)
			if ok && d <= linePickPx*linePickPx {
				found = append(found, pickCandidate{
					hit:      scene.PickHit{ID: id, World: world, HasWorld: true},
					kind:     el.kind,
					distSq:   d,
					sequence: seq,
				})
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		pi, pj := kindPriority(found[i].kind), kindPriority(found[j].kind)
		if pi != pj {
			return pi < pj
		}
		if found[i].distSq != found[j].distSq {
			return found[i].distSq < found[j].distSq
		}
		return found[i].sequence > found[j].sequence
	})
	return found
}

// PickTopmost returns the highest-priority element under the screen position
func (s *SceneView) PickTopmost(p scene.ScreenPos) (scene.PickHit, bool) {
	found := s.pickAll(p)
	if len(found) == 0 {
		return scene.PickHit{}, false
	}
	return found[0].hit, true
}

// PickAllAt returns up to limit elements under the screen position, best first
func (s *SceneView) PickAllAt(p scene.ScreenPos, limit int) []scene.PickHit {
	found := s.pickAll(p)
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	hits := make([]scene.PickHit, 0, len(found))
	for _, c := range found {
		hits = append(hits, c.hit)
	}
	return hits
}

// nearestOnPolyline finds the closest point of a projected polyline to the
// screen position. It returns the corresponding world point and the squared
// pixel distance.
func (s *SceneView) nearestOnPolyline(points []geometry.Vector3, p scene.ScreenPos) (geometry.Vector3, float64, bool) {
	bestD := -1.0
	var bestWorld geometry.Vector3

	for i := 0; i+1 < len(points); i++ {
		a, aok := s.project(points[i])
		b, bok := s.project(points[i+1])
		if !aok || !bok {
			continue
		}

		ax, ay := float64(a.X), float64(a.Y)
		bx, by := float64(b.X), float64(b.Y)
		dx, dy := bx-ax, by-ay
		lenSq := dx*dx + dy*dy
		u := 0.0
		if lenSq > 0 {
			u = ((p.X-ax)*dx + (p.Y-ay)*dy) / lenSq
			if u < 0 {
				u = 0
			}
			if u > 1 {
				u = 1
			}
		}
		cx, cy := ax+u*dx, ay+u*dy
		d := p.DistSq(scene.ScreenPos{X: cx, Y: cy})
		if bestD < 0 || d < bestD {
			bestD = d
			bestWorld = points[i].Lerp(points[i+1], u)
		}
	}
	if bestD < 0 {
		return geometry.Vector3{}, 0, false
	}
	return bestWorld, bestD, true
}

func (s *SceneView) CreateMarker(pos geometry.Vector3) scene.ElementID {
	return s.alloc(&sceneElement{kind: scene.KindMarker, pos: pos})
}

func (s *SceneView) CreateLine(points []geometry.Vector3) scene.ElementID {
	if len(points) < 2 {
		return scene.NoElement
	}
	pts := make([]geometry.Vector3, len(points))
	copy(pts, points)
	return s.alloc(&sceneElement{kind: scene.KindLine, points: pts})
}

func (s *SceneView) CreateLabel(text string, pos geometry.Vector3) scene.ElementID {
	return s.alloc(&sceneElement{kind: scene.KindLabel, text: text, pos: pos})
}

func (s *SceneView) SetMarker(id scene.ElementID, pos geometry.Vector3) {
	if el, ok := s.elements[id]; ok && el.kind == scene.KindMarker {
		el.pos = pos
	}
}

func (s *SceneView) SetLine(id scene.ElementID, points []geometry.Vector3) {
	el, ok := s.elements[id]
	if !ok || el.kind != scene.KindLine || len(points) < 2 {
		return
	}
	el.points = el.points[:0]
	el.points = append(el.points, points...)
}

func (s *SceneView) SetLabel(id scene.ElementID, text string, pos geometry.Vector3) {
	if el, ok := s.elements[id]; ok && el.kind == scene.KindLabel {
		el.text = text
		el.pos = pos
	}
}

func (s *SceneView) SetHighlight(id scene.ElementID, on bool) {
	if el, ok := s.elements[id]; ok {
		el.highlighted = on
	}
}

func (s *SceneView) Remove(id scene.ElementID) {
	if _, ok := s.elements[id]; !ok {
		return
	}
	delete(s.elements, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *SceneView) SuppressCameraControls(suppress bool) {
	s.app.Camera.suppressed = suppress
}

// project maps a world point to screen pixels. Points behind the camera
// report not visible.
func (s *SceneView) project(world geometry.Vector3) (rl.Vector2, bool) {
	cam := s.app.Camera.camera
	forward := rl.Vector3Subtract(cam.Target, cam.Position)
	toPoint := rl.Vector3Subtract(rl.Vector3{X: float32(world.X), Y: float32(world.Y), Z: float32(world.Z)}, cam.Position)
	if rl.Vector3DotProduct(forward, toPoint) <= 0 {
		return rl.Vector2{}, false
	}
	sp := rl.GetWorldToScreen(rl.Vector3{X: float32(world.X), Y: float32(world.Y), Z: float32(world.Z)}, cam)
	return sp, true
}

// labelRect computes the background rectangle a label occupies on screen.
// Picking and drawing share it so hits match pixels.
func (s *SceneView) labelRect(text string, anchor rl.Vector2) rl.Rectangle {
	textSize := rl.MeasureTextEx(s.app.UI.font, text, labelFontSize, 1)
	return rl.Rectangle{
		X:      anchor.X - textSize.X/2 - labelPadding,
		Y:      anchor.Y - labelLiftPx - labelPadding,
		Width:  textSize.X + 2*labelPadding,
		Height: textSize.Y + 2*labelPadding,
	}
}

// Draw renders all retained elements in screen space. Lines go first so
// markers and labels stay readable on top of them.
func (s *SceneView) Draw() {
	for _, id := range s.order {
		el := s.elements[id]
		if el.kind != scene.KindLine {
			continue
		}
		color := lineColor
		thickness := float32(2)
		if el.highlighted {
			color = lineHotColor
			thickness = 3
		}
		for i := 0; i+1 < len(el.points); i++ {
			a, aok := s.project(el.points[i])
			b, bok := s.project(el.points[i+1])
			if aok && bok {
				rl.DrawLineEx(a, b, thickness, color)
			}
		}
	}

	for _, id := range s.order {
		el := s.elements[id]
		if el.kind != scene.KindMarker {
			continue
		}
		sp, ok := s.project(el.pos)
		if !ok {
			continue
		}
		radius := float32(markerRadiusPx)
		color := markerColor
		if el.highlighted {
			radius += 2
			color = markerHotColor
		}
		rl.DrawCircleV(sp, radius, color)
		rl.DrawCircleLinesV(sp, radius, rl.NewColor(20, 20, 20, 255))
	}

	for _, id := range s.order {
		el := s.elements[id]
		if el.kind != scene.KindLabel {
			continue
		}
		sp, ok := s.project(el.pos)
		if !ok {
			continue
		}
		s.drawLabel(el, sp)
	}
}

func (s *SceneView) drawLabel(el *sceneElement, anchor rl.Vector2) {
	border := labelBorder
	borderWidth := float32(1)
	if el.highlighted {
		border = labelHotBorder
		borderWidth = 2
	}

	rect := s.labelRect(el.text, anchor)
	rl.DrawRectangleRec(rect, rl.NewColor(20, 20, 20, 220))
	rl.DrawRectangleLinesEx(rect, borderWidth, border)

	textPos := rl.Vector2{
		X: rect.X + labelPadding,
		Y: rect.Y + labelPadding,
	}
	rl.DrawTextEx(s.app.UI.font, el.text, textPos, labelFontSize, 1, rl.RayWhite)
}
