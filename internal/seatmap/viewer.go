package seatmap

import (
	"io"
	"log"
)

// Viewer shows a submitted seatmap read-only. It exposes no selection and
// no mutation; a failed load leaves it blank.
type Viewer struct {
	width   float64
	height  float64
	doc     *Document
	objects []*SceneGroup
}

// NewViewer creates a viewer sized to its container.
func NewViewer(width, height float64) *Viewer {
	return &Viewer{width: width, height: height}
}

// Load parses raw (the persisted seatmap field). On failure the viewer is
// cleared, the error is logged and returned, and nothing else is attempted.
func (v *Viewer) Load(raw string) error {
	v.doc = nil
	v.objects = nil

	doc, err := Decode([]byte(raw))
	if err != nil {
		log.Printf("[seatmap] viewer: load failed: %v", err)
		return err
	}
	groups, _, err := doc.scene()
	if err != nil {
		log.Printf("[seatmap] viewer: load failed: %v", err)
		return err
	}
	v.doc = doc
	v.objects = groups
	return nil
}

// Loaded reports whether a document is showing.
func (v *Viewer) Loaded() bool { return v.doc != nil }

// Resize fits the viewer to a new container size.
func (v *Viewer) Resize(width, height float64) {
	v.width = width
	v.height = height
}

// Size returns the container size.
func (v *Viewer) Size() (float64, float64) { return v.width, v.height }

// Objects returns copies of the loaded groups.
func (v *Viewer) Objects() []*SceneGroup { return cloneGroups(v.objects) }

// RenderSVG draws the loaded document at the viewer's size. When nothing is
// loaded the output is a blank canvas.
func (v *Viewer) RenderSVG(w io.Writer) error {
	return Render(w, v.doc, RenderOptions{Width: v.width, Height: v.height})
}
