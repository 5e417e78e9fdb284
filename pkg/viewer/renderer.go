package viewer

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/eric-ce/terrameasure/internal/editor"
	"github.com/eric-ce/terrameasure/internal/measure"
	"github.com/eric-ce/terrameasure/internal/scene"
	"github.com/eric-ce/terrameasure/pkg/geometry"
	"github.com/eric-ce/terrameasure/pkg/terrain"
)

const (
	rendererMarkerPx  = 10.0
	rendererPickPx    = 12.0
	rendererLinePx    = 6.0
	rendererLabelSize = 12.0
)

var (
	rendererMarkerFill = color.RGBA{255, 200, 60, 255}
	rendererMarkerHot  = color.RGBA{255, 240, 160, 255}
	rendererLineColor  = color.RGBA{80, 200, 255, 255}
	rendererLineHot    = color.RGBA{180, 235, 255, 255}
	rendererLabelBg    = color.RGBA{20, 20, 20, 220}
)

// Options configures a TerrainRenderer
type Options struct {
	Clamp    bool    // start in ground-clamped distance mode
	Interval float64 // clamp sample interval, 0 keeps the default
	Epsilon  float64 // coincident vertex radius, 0 keeps the default
}

type viewElement struct {
	kind        scene.Kind
	points      []geometry.Vector3
	pos         geometry.Vector3
	text        string
	highlighted bool
}

// TerrainRenderer is a fyne widget that renders a terrain with measurement
// paths drawn over it. It is the scene backend of its own embedded editor:
// pointer events feed the editor, the editor mutates paths, and visual sync
// calls back into the widget's element API.
type TerrainRenderer struct {
	widget.BaseWidget

	terrain *terrain.Terrain
	camera  *Camera
	store   *measure.Store
	editor  *editor.Editor

	elements   map[scene.ElementID]*viewElement
	order      []scene.ElementID
	nextID     scene.ElementID
	suppressed bool

	width, height float64
	background    *canvas.Image
	lastMouse     fyne.Position
	dragStart     *fyne.Position
	moved         bool
}

// NewTerrainRenderer creates a measurement view over the given terrain
func NewTerrainRenderer(t *terrain.Terrain, opts Options) *TerrainRenderer {
	r := &TerrainRenderer{
		terrain:  t,
		camera:   NewCamera(t.BoundingBox()),
		elements: make(map[scene.ElementID]*viewElement),
	}

	mode := measure.Straight
	if opts.Clamp {
		mode = measure.GroundClamped
	}
	engine := measure.NewEngine(mode, opts.Interval, r)
	r.store = measure.NewStore(engine)
	if opts.Epsilon > 0 {
		r.store.SetEpsilon(opts.Epsilon)
	}
	r.editor = editor.New(r.store, scene.NewSync(r), r)

	r.ExtendBaseWidget(r)
	return r
}

// Store exposes the path store, e.g. for record subscriptions
func (r *TerrainRenderer) Store() *measure.Store {
	return r.store
}

// HandleEscape cancels the current add mode or drag
func (r *TerrainRenderer) HandleEscape() {
	r.editor.Escape()
	r.Refresh()
}

// HandleDelete deletes the vertex under the last pointer position
func (r *TerrainRenderer) HandleDelete() {
	r.editor.DeleteVertexAt(r.screenPos(r.lastMouse))
	r.Refresh()
}

func (r *TerrainRenderer) screenPos(p fyne.Position) scene.ScreenPos {
	return scene.ScreenPos{X: float64(p.X), Y: float64(p.Y)}
}

// Adapter implementation

// SampleHeight reports the terrain height under (x, z)
func (r *TerrainRenderer) SampleHeight(x, z float64) (float64, bool) {
	return r.terrain.SampleHeight(x, z)
}

// PointerToWorld casts a ray through the screen position onto the terrain
func (r *TerrainRenderer) PointerToWorld(p scene.ScreenPos) (geometry.Vector3, bool) {
	if r.width <= 0 || r.height <= 0 {
		return geometry.Vector3{}, false
	}
	origin, dir := r.camera.Unproject(p.X, p.Y, r.width, r.height)
	return r.terrain.RaycastSurface(origin, dir, r.camera.Distance*4)
}

func (r *TerrainRenderer) alloc(el *viewElement) scene.ElementID {
	r.nextID++
	id := r.nextID
	r.elements[id] = el
	r.order = append(r.order, id)
	return id
}

func (r *TerrainRenderer) CreateMarker(pos geometry.Vector3) scene.ElementID {
	return r.alloc(&viewElement{kind: scene.KindMarker, pos: pos})
}

func (r *TerrainRenderer) CreateLine(points []geometry.Vector3) scene.ElementID {
	if len(points) < 2 {
		return scene.NoElement
	}
	pts := make([]geometry.Vector3, len(points))
	copy(pts, points)
	return r.alloc(&viewElement{kind: scene.KindLine, points: pts})
}

func (r *TerrainRenderer) CreateLabel(text string, pos geometry.Vector3) scene.ElementID {
	return r.alloc(&viewElement{kind: scene.KindLabel, text: text, pos: pos})
}

func (r *TerrainRenderer) SetMarker(id scene.ElementID, pos geometry.Vector3) {
	if el, ok := r.elements[id]; ok && el.kind == scene.KindMarker {
		el.pos = pos
	}
}

func (r *TerrainRenderer) SetLine(id scene.ElementID, points []geometry.Vector3) {
	el, ok := r.elements[id]
	if !ok || el.kind != scene.KindLine || len(points) < 2 {
		return
	}
	el.points = el.points[:0]
	el.points = append(el.points, points...)
}

func (r *TerrainRenderer) SetLabel(id scene.ElementID, text string, pos geometry.Vector3) {
	if el, ok := r.elements[id]; ok && el.kind == scene.KindLabel {
		el.text = text
		el.pos = pos
	}
}

func (r *TerrainRenderer) SetHighlight(id scene.ElementID, on bool) {
	if el, ok := r.elements[id]; ok {
		el.highlighted = on
	}
}

func (r *TerrainRenderer) Remove(id scene.ElementID) {
	if _, ok := r.elements[id]; !ok {
		return
	}
	delete(r.elements, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *TerrainRenderer) SuppressCameraControls(suppress bool) {
	r.suppressed = suppress
}

// PickTopmost returns the best element under the screen position, markers
// before labels before lines.
func (r *TerrainRenderer) PickTopmost(p scene.ScreenPos) (scene.PickHit, bool) {
	hits := r.PickAllAt(p, 1)
	if len(hits) == 0 {
		return scene.PickHit{}, false
	}
	return hits[0], true
}

func (r *TerrainRenderer) PickAllAt(p scene.ScreenPos, limit int) []scene.PickHit {
	type candidate struct {
		hit      scene.PickHit
		priority int
		distSq   float64
	}
	var found []candidate

	for _, id := range r.order {
		el := r.elements[id]
		switch el.kind {
		case scene.KindMarker:
			x, y, z := r.camera.Project(el.pos, r.width, r.height)
			if z <= 0.011 {
				continue
			}
			d := p.DistSq(scene.ScreenPos{X: x, Y: y})
			if d <= rendererPickPx*rendererPickPx {
				found = append(found, candidate{
					hit:      scene.PickHit{ID: id, World: el.pos, HasWorld: true},
					priority: 0,
					distSq:   d,
				})
			}

		case scene.KindLabel:
			x, y, z := r.camera.Project(el.pos, r.width, r.height)
			if z <= 0.011 {
				continue
			}
			size := fyne.MeasureText(el.text, rendererLabelSize, fyne.TextStyle{})
			halfW := float64(size.Width)/2 + 3
			halfH := float64(size.Height)/2 + 3
			if math.Abs(p.X-x) <= halfW && math.Abs(p.Y-(y-14)) <= halfH {
				found = append(found, candidate{
					hit:      scene.PickHit{ID: id, World: el.pos, HasWorld: true},
					priority: 1,
				})
			}

		case scene.KindLine:
			for i := 0; i+1 < len(el.points); i++ {
				ax, ay, az := r.camera.Project(el.points[i], r.width, r.height)
				bx, by, bz := r.camera.Project(el.points[i+1], r.width, r.height)
				if az <= 0.011 || bz <= 0.011 {
					continue
				}
				dx, dy := bx-ax, by-ay
				lenSq := dx*dx + dy*dy
				u := 0.0
				if lenSq > 0 {
					u = math.Max(0, math.Min(1, ((p.X-ax)*dx+(p.Y-ay)*dy)/lenSq))
				}
				d := p.DistSq(scene.ScreenPos{X: ax + u*dx, Y: ay + u*dy})
				if d <= rendererLinePx*rendererLinePx {
					found = append(found, candidate{
						hit:      scene.PickHit{ID: id, World: el.points[i].Lerp(el.points[i+1], u), HasWorld: true},
						priority: 2,
						distSq:   d,
					})
				}
			}
		}
	}

	// Selection sort by (priority, distance); candidate lists are tiny
	var hits []scene.PickHit
	for len(found) > 0 && (limit <= 0 || len(hits) < limit) {
		best := 0
		for i := 1; i < len(found); i++ {
			if found[i].priority < found[best].priority ||
				(found[i].priority == found[best].priority && found[i].distSq < found[best].distSq) {
				best = i
			}
		}
		hits = append(hits, found[best].hit)
		found = append(found[:best], found[best+1:]...)
	}
	return hits
}

// Input events

// MouseDown feeds presses to the editor; secondary press finalizes the draft
func (r *TerrainRenderer) MouseDown(ev *desktop.MouseEvent) {
	pos := r.screenPos(ev.Position)
	r.lastMouse = ev.Position
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		r.moved = false
		r.dragStart = &ev.Position
		r.editor.PointerDown(pos)
	case desktop.MouseButtonSecondary:
		r.editor.SecondaryClick(pos)
	}
	r.Refresh()
}

func (r *TerrainRenderer) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	pos := r.screenPos(ev.Position)
	r.editor.PointerUp(pos)
	if !r.moved {
		r.editor.PrimaryClick(pos)
	}
	r.dragStart = nil
	r.Refresh()
}

// Dragged rotates the camera unless a vertex drag owns the pointer
func (r *TerrainRenderer) Dragged(event *fyne.DragEvent) {
	r.lastMouse = event.Position
	r.moved = true
	r.editor.PointerMove(r.screenPos(event.Position))
	if !r.suppressed {
		r.camera.Rotate(float64(-event.Dragged.DY)*0.01, float64(event.Dragged.DX)*0.01)
		r.invalidateBackground()
	}
	r.Refresh()
}

func (r *TerrainRenderer) DragEnd() {
	r.dragStart = nil
}

// Scrolled zooms the camera
func (r *TerrainRenderer) Scrolled(event *fyne.ScrollEvent) {
	if r.suppressed {
		return
	}
	r.camera.Zoom(-float64(event.Scrolled.DY) * 0.001)
	r.invalidateBackground()
	r.Refresh()
}

// MouseIn implements desktop.Hoverable
func (r *TerrainRenderer) MouseIn(ev *desktop.MouseEvent) {
	r.lastMouse = ev.Position
}

// MouseMoved drives hover highlighting and draw previews
func (r *TerrainRenderer) MouseMoved(ev *desktop.MouseEvent) {
	r.lastMouse = ev.Position
	r.editor.PointerMove(r.screenPos(ev.Position))
	r.Refresh()
}

// MouseOut implements desktop.Hoverable
func (r *TerrainRenderer) MouseOut() {}

// Rendering

func (r *TerrainRenderer) invalidateBackground() {
	r.background = nil
}

// CreateRenderer creates the renderer for the widget
func (r *TerrainRenderer) CreateRenderer() fyne.WidgetRenderer {
	return &terrainWidgetRenderer{renderer: r}
}

type terrainWidgetRenderer struct {
	renderer *TerrainRenderer
	objects  []fyne.CanvasObject
}

func (t *terrainWidgetRenderer) Layout(size fyne.Size) {
	r := t.renderer
	if float64(size.Width) != r.width || float64(size.Height) != r.height {
		r.width = float64(size.Width)
		r.height = float64(size.Height)
		r.invalidateBackground()
	}
	t.Refresh()
}

func (t *terrainWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (t *terrainWidgetRenderer) Refresh() {
	r := t.renderer
	if r.width <= 0 || r.height <= 0 {
		return
	}

	if r.background == nil {
		img := RenderTerrain(r.terrain, r.camera, int(r.width), int(r.height))
		r.background = canvas.NewImageFromImage(img)
		r.background.ScaleMode = canvas.ImageScalePixels
	}
	r.background.Resize(fyne.NewSize(float32(r.width), float32(r.height)))

	t.objects = t.objects[:0]
	t.objects = append(t.objects, r.background)
	t.objects = append(t.objects, r.lineObjects()...)
	t.objects = append(t.objects, r.markerObjects()...)
	t.objects = append(t.objects, r.labelObjects()...)

	canvas.Refresh(r)
}

func (t *terrainWidgetRenderer) Objects() []fyne.CanvasObject {
	return t.objects
}

func (t *terrainWidgetRenderer) Destroy() {}

func (r *TerrainRenderer) lineObjects() []fyne.CanvasObject {
	var objs []fyne.CanvasObject
	for _, id := range r.order {
		el := r.elements[id]
		if el.kind != scene.KindLine {
			continue
		}
		col := rendererLineColor
		width := float32(2)
		if el.highlighted {
			col = rendererLineHot
			width = 3
		}
		for i := 0; i+1 < len(el.points); i++ {
			ax, ay, az := r.camera.Project(el.points[i], r.width, r.height)
			bx, by, bz := r.camera.Project(el.points[i+1], r.width, r.height)
			if az <= 0.011 || bz <= 0.011 {
				continue
			}
			line := canvas.NewLine(col)
			line.StrokeWidth = width
			line.Position1 = fyne.NewPos(float32(ax), float32(ay))
			line.Position2 = fyne.NewPos(float32(bx), float32(by))
			objs = append(objs, line)
		}
	}
	return objs
}

func (r *TerrainRenderer) markerObjects() []fyne.CanvasObject {
	var objs []fyne.CanvasObject
	for _, id := range r.order {
		el := r.elements[id]
		if el.kind != scene.KindMarker {
			continue
		}
		x, y, z := r.camera.Project(el.pos, r.width, r.height)
		if z <= 0.011 {
			continue
		}
		fill := rendererMarkerFill
		size := float32(rendererMarkerPx)
		if el.highlighted {
			fill = rendererMarkerHot
			size += 4
		}
		marker := canvas.NewCircle(fill)
		marker.StrokeColor = color.White
		marker.StrokeWidth = 1
		marker.Resize(fyne.NewSize(size, size))
		marker.Move(fyne.NewPos(float32(x)-size/2, float32(y)-size/2))
		objs = append(objs, marker)
	}
	return objs
}

func (r *TerrainRenderer) labelObjects() []fyne.CanvasObject {
	var objs []fyne.CanvasObject
	for _, id := range r.order {
		el := r.elements[id]
		if el.kind != scene.KindLabel {
			continue
		}
		x, y, z := r.camera.Project(el.pos, r.width, r.height)
		if z <= 0.011 {
			continue
		}

		size := fyne.MeasureText(el.text, rendererLabelSize, fyne.TextStyle{})
		bg := canvas.NewRectangle(rendererLabelBg)
		bg.StrokeWidth = 1
		bg.StrokeColor = rendererLineColor
		if el.highlighted {
			bg.StrokeColor = color.RGBA{255, 255, 0, 255}
			bg.StrokeWidth = 2
		}
		bg.Resize(fyne.NewSize(size.Width+6, size.Height+6))
		bg.Move(fyne.NewPos(float32(x)-size.Width/2-3, float32(y)-14-size.Height/2-3))

		text := canvas.NewText(el.text, color.White)
		text.TextSize = rendererLabelSize
		text.Move(fyne.NewPos(float32(x)-size.Width/2, float32(y)-14-size.Height/2))

		objs = append(objs, bg, text)
	}
	return objs
}
