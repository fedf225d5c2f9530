package seatmap

import (
	"fmt"

	"github.com/google/uuid"
)

// MaxDimension bounds every viewport, document and render size.
const MaxDimension = 10000.0

func sizeOK(width, height, maxWidth, maxHeight float64) bool {
	return width > 0 && height > 0 && width <= maxWidth && height <= maxHeight
}

// Canvas owns the live drawing surface of one editing session. Objects are
// kept in z-order; their classifications live in a side table keyed by
// instance id. Every successful mutation bumps Revision, which is what a
// renderer watches.
type Canvas struct {
	width       float64
	height      float64
	objects     []*SceneGroup
	areas       map[string]Area
	selection   []string
	ticketTypes []TicketTypeDraft
	grid        bool
	placeholder bool
	revision    uint64
	notifier    Notifier
	maxWidth    float64
	maxHeight   float64
}

// NewCanvas creates an empty canvas of the given viewport size. Neither
// side may exceed MaxDimension.
func NewCanvas(width, height float64, notifier Notifier) (*Canvas, error) {
	if !sizeOK(width, height, MaxDimension, MaxDimension) {
		return nil, ErrInvalidViewport
	}
	return &Canvas{
		width:       width,
		height:      height,
		areas:       make(map[string]Area),
		placeholder: true,
		notifier:    notifierOrNop(notifier),
		maxWidth:    MaxDimension,
		maxHeight:   MaxDimension,
	}, nil
}

// SetMaxSize lowers the largest viewport Resize and LoadDocument accept.
// Non-positive values and values above MaxDimension mean MaxDimension. It
// fails, changing nothing, when the current viewport is already larger.
func (c *Canvas) SetMaxSize(width, height float64) error {
	if width <= 0 || width > MaxDimension {
		width = MaxDimension
	}
	if height <= 0 || height > MaxDimension {
		height = MaxDimension
	}
	if c.width > width || c.height > height {
		return ErrInvalidViewport
	}
	c.maxWidth, c.maxHeight = width, height
	return nil
}

// MaxSize returns the largest accepted viewport.
func (c *Canvas) MaxSize() (float64, float64) { return c.maxWidth, c.maxHeight }

// Width returns the viewport width.
func (c *Canvas) Width() float64 { return c.width }

// Height returns the viewport height.
func (c *Canvas) Height() float64 { return c.height }

// Len returns the number of placed objects.
func (c *Canvas) Len() int { return len(c.objects) }

// Revision counts successful mutations.
func (c *Canvas) Revision() uint64 { return c.revision }

// Placeholder reports whether the "empty canvas" hint is still showing.
func (c *Canvas) Placeholder() bool { return c.placeholder }

// GridEnabled reports the background grid setting.
func (c *Canvas) GridEnabled() bool { return c.grid }

// Objects returns copies of all placed groups in z-order.
func (c *Canvas) Objects() []*SceneGroup { return cloneGroups(c.objects) }

// Object returns a copy of one placed group.
func (c *Canvas) Object(id string) (*SceneGroup, bool) {
	if g := c.find(id); g != nil {
		return g.Clone(), true
	}
	return nil, false
}

// Area returns the classification of a placed group.
func (c *Canvas) Area(id string) (Area, bool) {
	a, ok := c.areas[id]
	return a, ok
}

// Selection returns the selected instance ids.
func (c *Canvas) Selection() []string {
	out := make([]string, len(c.selection))
	copy(out, c.selection)
	return out
}

// TicketTypes returns the current upstream ticket type list.
func (c *Canvas) TicketTypes() []TicketTypeDraft { return copyTicketTypes(c.ticketTypes) }

// Active returns a copy of the single active object.
func (c *Canvas) Active() (*SceneGroup, bool) {
	g := c.active()
	if g == nil {
		return nil, false
	}
	return g.Clone(), true
}

func (c *Canvas) touch() { c.revision++ }

func (c *Canvas) find(id string) *SceneGroup {
	for _, g := range c.objects {
		if g.InstanceID == id {
			return g
		}
	}
	return nil
}

func (c *Canvas) active() *SceneGroup {
	if len(c.selection) != 1 {
		return nil
	}
	return c.find(c.selection[0])
}

func (c *Canvas) selected() []*SceneGroup {
	out := make([]*SceneGroup, 0, len(c.selection))
	for _, id := range c.selection {
		if g := c.find(id); g != nil {
			out = append(out, g)
		}
	}
	return out
}

func (c *Canvas) ticketZoneExists(ticketTypeID string) bool {
	for _, a := range c.areas {
		if a.bindsTicket(ticketTypeID) {
			return true
		}
	}
	return false
}

// Place adds a configured group, centres it and makes it the active
// selection. A second TICKET zone for the same ticket type is rejected with
// an error toast and the canvas is left as it was.
func (c *Canvas) Place(g *SceneGroup, area Area) (*SceneGroup, error) {
	if g == nil {
		return nil, fmt.Errorf("place: nil group")
	}
	if id, ok := area.TicketTypeID(); ok && c.ticketZoneExists(id) {
		c.notifier.Notify(SeverityError, ErrDuplicateTicketZone.Error())
		return nil, ErrDuplicateTicketZone
	}

	obj := g.Clone()
	if obj.InstanceID == "" || c.find(obj.InstanceID) != nil {
		obj.InstanceID = uuid.NewString()
	}
	c.centre(obj)

	c.objects = append(c.objects, obj)
	c.areas[obj.InstanceID] = area
	c.selection = []string{obj.InstanceID}
	c.placeholder = false
	c.touch()
	return obj.Clone(), nil
}

// Select replaces the selection. Unknown ids leave the selection unchanged.
func (c *Canvas) Select(ids ...string) error {
	seen := make(map[string]bool, len(ids))
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if c.find(id) == nil {
			return fmt.Errorf("select %s: %w", id, ErrObjectNotFound)
		}
		if !seen[id] {
			seen[id] = true
			next = append(next, id)
		}
	}
	c.selection = next
	return nil
}

// ClearSelection deselects everything.
func (c *Canvas) ClearSelection() { c.selection = nil }

// Drag moves the whole selection by dx, dy and then clamps the union of the
// selected bounds back inside the viewport.
func (c *Canvas) Drag(dx, dy float64) error {
	sel := c.selected()
	if len(sel) == 0 {
		return ErrNoActiveObject
	}
	for _, g := range sel {
		g.Left += dx
		g.Top += dy
	}
	c.clamp(sel)
	c.touch()
	return nil
}

// MoveTo positions the active object at left, top, clamped to the viewport.
func (c *Canvas) MoveTo(left, top float64) error {
	g := c.active()
	if g == nil {
		return ErrNoActiveObject
	}
	g.Left = left
	g.Top = top
	c.clamp([]*SceneGroup{g})
	c.touch()
	return nil
}

// Scale sets the scale factors of the active object and clamps it.
func (c *Canvas) Scale(sx, sy float64) error {
	if sx <= 0 || sy <= 0 {
		return ErrInvalidScale
	}
	g := c.active()
	if g == nil {
		return ErrNoActiveObject
	}
	g.ScaleX = sx
	g.ScaleY = sy
	c.clamp([]*SceneGroup{g})
	c.touch()
	return nil
}

func (c *Canvas) clamp(groups []*SceneGroup) {
	var union Rect
	for _, g := range groups {
		union = union.Union(g.Bounds())
	}
	dx, dy := clampShift(union, c.width, c.height)
	if dx == 0 && dy == 0 {
		return
	}
	for _, g := range groups {
		g.Left += dx
		g.Top += dy
	}
}

func (c *Canvas) centre(g *SceneGroup) {
	b := g.Bounds()
	g.Left = (c.width - b.Width) / 2
	g.Top = (c.height - b.Height) / 2
}

// Duplicate copies the active object 20px down and right under a new
// instance id and selects the copy. TICKET zones cannot be duplicated.
func (c *Canvas) Duplicate() (*SceneGroup, error) {
	src := c.active()
	if src == nil {
		return nil, ErrNoActiveObject
	}
	area := c.areas[src.InstanceID]
	if area.Type() == AreaTicket {
		c.notifier.Notify(SeverityError, ErrTicketZoneDuplicate.Error())
		return nil, ErrTicketZoneDuplicate
	}

	dup := src.Clone()
	dup.InstanceID = uuid.NewString()
	dup.Left += duplicateOffset
	dup.Top += duplicateOffset

	c.objects = append(c.objects, dup)
	c.areas[dup.InstanceID] = area
	c.selection = []string{dup.InstanceID}
	c.touch()
	return dup.Clone(), nil
}

// Delete removes every selected object and clears the selection. It returns
// how many objects were removed.
func (c *Canvas) Delete() int {
	if len(c.selection) == 0 {
		return 0
	}
	drop := make(map[string]bool, len(c.selection))
	for _, id := range c.selection {
		drop[id] = true
	}
	removed := c.removeWhere(func(g *SceneGroup) bool { return drop[g.InstanceID] })
	c.selection = nil
	if removed > 0 {
		c.touch()
	}
	return removed
}

func (c *Canvas) removeWhere(match func(*SceneGroup) bool) int {
	kept := c.objects[:0]
	removed := 0
	for _, g := range c.objects {
		if match(g) {
			delete(c.areas, g.InstanceID)
			removed++
			continue
		}
		kept = append(kept, g)
	}
	for i := len(kept); i < len(c.objects); i++ {
		c.objects[i] = nil
	}
	c.objects = kept
	return removed
}

// FlipHorizontal mirrors the active object's shape left-to-right.
func (c *Canvas) FlipHorizontal() error {
	g := c.active()
	if g == nil {
		return ErrNoActiveObject
	}
	g.flipHorizontal()
	c.touch()
	return nil
}

// FlipVertical mirrors the active object's shape top-to-bottom.
func (c *Canvas) FlipVertical() error {
	g := c.active()
	if g == nil {
		return ErrNoActiveObject
	}
	g.flipVertical()
	c.touch()
	return nil
}

// Center re-centres the active object in the viewport.
func (c *Canvas) Center() error {
	g := c.active()
	if g == nil {
		return ErrNoActiveObject
	}
	c.centre(g)
	c.touch()
	return nil
}

// ToggleGrid flips the background grid. The document is not modified, but
// the rendering is, so the revision advances.
func (c *Canvas) ToggleGrid() bool {
	c.grid = !c.grid
	c.touch()
	return c.grid
}

// SetGrid sets the background grid explicitly.
func (c *Canvas) SetGrid(on bool) {
	if c.grid != on {
		c.grid = on
		c.touch()
	}
}

// SetTicketTypes records the upstream ticket type list and removes every
// TICKET zone whose ticket type is no longer in it. The ids of removed
// objects are returned.
func (c *Canvas) SetTicketTypes(list []TicketTypeDraft) []string {
	c.ticketTypes = copyTicketTypes(list)

	live := make(map[string]bool, len(list))
	for _, tt := range list {
		live[tt.TempID] = true
	}

	var pruned []string
	c.removeWhere(func(g *SceneGroup) bool {
		id, ok := c.areas[g.InstanceID].TicketTypeID()
		if ok && !live[id] {
			pruned = append(pruned, g.InstanceID)
			return true
		}
		return false
	})
	if len(pruned) == 0 {
		return nil
	}

	gone := make(map[string]bool, len(pruned))
	for _, id := range pruned {
		gone[id] = true
	}
	sel := c.selection[:0]
	for _, id := range c.selection {
		if !gone[id] {
			sel = append(sel, id)
		}
	}
	c.selection = sel
	c.touch()
	return pruned
}

// Resize changes the viewport. Objects keep their stored coordinates. A size
// above the canvas limit is rejected.
func (c *Canvas) Resize(width, height float64) error {
	if !sizeOK(width, height, c.maxWidth, c.maxHeight) {
		return ErrInvalidViewport
	}
	c.width = width
	c.height = height
	c.touch()
	return nil
}

// Document serialises the canvas.
func (c *Canvas) Document() *Document {
	doc := &Document{
		Version: DocumentVersion,
		Width:   c.width,
		Height:  c.height,
		Objects: make([]Object, 0, len(c.objects)),
	}
	for _, g := range c.objects {
		doc.Objects = append(doc.Objects, ObjectFromGroup(g, c.areas[g.InstanceID]))
	}
	return doc
}

// LoadDocument replaces the canvas contents with doc. The document is fully
// validated first; on failure the canvas is unchanged. A document with
// positive dimensions also sets the viewport.
func (c *Canvas) LoadDocument(doc *Document) error {
	groups, areas, err := doc.scene()
	if err != nil {
		return err
	}
	if doc.Width > c.maxWidth || doc.Height > c.maxHeight {
		return fmt.Errorf("%w: %sx%s exceeds %sx%s", ErrMalformedDocument,
			num(doc.Width), num(doc.Height), num(c.maxWidth), num(c.maxHeight))
	}
	if doc.Width > 0 && doc.Height > 0 {
		c.width = doc.Width
		c.height = doc.Height
	}
	c.objects = groups
	c.areas = areas
	c.selection = nil
	c.placeholder = len(groups) == 0
	c.touch()
	return nil
}

// MarshalDocument is Document followed by Encode.
func (c *Canvas) MarshalDocument() ([]byte, error) {
	return Encode(c.Document())
}

// UnmarshalDocument is Decode followed by LoadDocument.
func (c *Canvas) UnmarshalDocument(data []byte) error {
	doc, err := Decode(data)
	if err != nil {
		return err
	}
	return c.LoadDocument(doc)
}
