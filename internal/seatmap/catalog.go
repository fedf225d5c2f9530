package seatmap

import "math"

// ShapeTemplate is an immutable factory for one kind of area shape.
type ShapeTemplate struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	PreviewImage string `json:"preview_image"`
	build        func() Primitive
}

// Build returns a brand-new group with a fresh instance id.
func (t ShapeTemplate) Build() *SceneGroup {
	build := t.build
	if build == nil {
		build = func() Primitive { return rectPrimitive(100, 50) }
	}
	return newGroup(t.ID, build(), DefaultStyle)
}

var basicShapes = []ShapeTemplate{
	template("rectangle", "Rectangle", func() Primitive { return rectPrimitive(100, 50) }),
	template("square", "Square", func() Primitive { return rectPrimitive(80, 80) }),
	template("triangle", "Triangle", func() Primitive { return trianglePrimitive(100, 80) }),
	template("rightTriangle", "Right triangle", func() Primitive {
		return polygonPrimitive([]Point{{0, 0}, {0, 80}, {100, 80}})
	}),
	template("circle", "Circle", func() Primitive { return circlePrimitive(40) }),
	template("trapezoid", "Trapezoid", func() Primitive {
		return polygonPrimitive([]Point{{25, 0}, {75, 0}, {100, 60}, {0, 60}})
	}),
	template("parallelogram", "Parallelogram", func() Primitive {
		return polygonPrimitive([]Point{{25, 0}, {100, 0}, {75, 60}, {0, 60}})
	}),
}

var customShapes = []ShapeTemplate{
	template("customShape1", "L block", func() Primitive {
		return polygonPrimitive([]Point{{0, 0}, {40, 0}, {40, 60}, {100, 60}, {100, 100}, {0, 100}})
	}),
	template("customShape2", "T stage", func() Primitive {
		return polygonPrimitive([]Point{{0, 0}, {120, 0}, {120, 40}, {80, 40}, {80, 100}, {40, 100}, {40, 40}, {0, 40}})
	}),
	template("customShape3", "Hexagon", func() Primitive { return regularPolygon(6, 50) }),
	template("customShape4", "Octagon", func() Primitive { return regularPolygon(8, 50) }),
	template("customShape5", "Fan", func() Primitive {
		return polygonPrimitive([]Point{{60, 80}, {0, 20}, {20, 8}, {40, 2}, {60, 0}, {80, 2}, {100, 8}, {120, 20}})
	}),
}

func template(id, label string, build func() Primitive) ShapeTemplate {
	return ShapeTemplate{
		ID:           id,
		Label:        label,
		PreviewImage: "/static/shapes/" + id + ".svg",
		build:        build,
	}
}

// BasicShapes returns the seven basic templates in display order.
func BasicShapes() []ShapeTemplate {
	out := make([]ShapeTemplate, len(basicShapes))
	copy(out, basicShapes)
	return out
}

// CustomShapes returns the five custom polygon templates in display order.
func CustomShapes() []ShapeTemplate {
	out := make([]ShapeTemplate, len(customShapes))
	copy(out, customShapes)
	return out
}

// LookupTemplate finds a template by id across both lists.
func LookupTemplate(id string) (ShapeTemplate, bool) {
	for _, list := range [][]ShapeTemplate{basicShapes, customShapes} {
		for _, t := range list {
			if t.ID == id {
				return t, true
			}
		}
	}
	return ShapeTemplate{}, false
}

func rectPrimitive(w, h float64) Primitive {
	return Primitive{Kind: KindRect, Width: w, Height: h}
}

func trianglePrimitive(w, h float64) Primitive {
	return Primitive{Kind: KindTriangle, Width: w, Height: h}
}

func circlePrimitive(r float64) Primitive {
	return Primitive{Kind: KindCircle, Width: 2 * r, Height: 2 * r, Radius: r}
}

// polygonPrimitive normalises points so the box starts at 0,0.
func polygonPrimitive(points []Point) Primitive {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	norm := make([]Point, len(points))
	for i, p := range points {
		norm[i] = Point{X: p.X - minX, Y: p.Y - minY}
	}
	return Primitive{Kind: KindPolygon, Width: maxX - minX, Height: maxY - minY, Points: norm}
}

func regularPolygon(sides int, radius float64) Primitive {
	points := make([]Point, sides)
	for i := range points {
		a := 2*math.Pi*float64(i)/float64(sides) - math.Pi/2
		points[i] = Point{
			X: math.Round((radius+radius*math.Cos(a))*100) / 100,
			Y: math.Round((radius+radius*math.Sin(a))*100) / 100,
		}
	}
	return polygonPrimitive(points)
}
