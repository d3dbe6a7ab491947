package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goomengine/goom"
	"github.com/setanarut/vec"
)

// SVGDrawer records draw calls and writes them as an SVG document.
// The y axis is flipped so up is up.
type SVGDrawer struct {
	projection goom.Projection
	body       strings.Builder

	minX, minY, maxX, maxY float64
}

var _ goom.IDrawer = (*SVGDrawer)(nil)

func NewSVGDrawer(projection goom.Projection) *SVGDrawer {
	return &SVGDrawer{
		projection: projection,
		minX:       math.Inf(1),
		minY:       math.Inf(1),
		maxX:       math.Inf(-1),
		maxY:       math.Inf(-1),
	}
}

func (d *SVGDrawer) grow(p vec.Vec2, r float64) {
	d.minX = math.Min(d.minX, p.X-r)
	d.maxX = math.Max(d.maxX, p.X+r)
	d.minY = math.Min(d.minY, -p.Y-r)
	d.maxY = math.Max(d.maxY, -p.Y+r)
}

func rgba(c goom.FColor) string {
	if c.A == 0 {
		return "none"
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", int(c.R*255), int(c.G*255), int(c.B*255), c.A)
}

func (d *SVGDrawer) DrawCircle(pos vec.Vec2, radius float64, outline, fill goom.FColor, data any) {
	d.grow(pos, radius)
	fmt.Fprintf(&d.body, `<circle cx="%g" cy="%g" r="%g" stroke="%s" fill="%s"/>`+"\n",
		pos.X, -pos.Y, radius, rgba(outline), rgba(fill))
}

// DrawSegment does not grow the view box: plane segments are very long.
func (d *SVGDrawer) DrawSegment(a, b vec.Vec2, fill goom.FColor, data any) {
	fmt.Fprintf(&d.body, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s"/>`+"\n",
		a.X, -a.Y, b.X, -b.Y, rgba(fill))
}

func (d *SVGDrawer) DrawPolygon(count int, verts []vec.Vec2, outline, fill goom.FColor, data any) {
	var points strings.Builder
	for _, v := range verts[:count] {
		d.grow(v, 0)
		fmt.Fprintf(&points, "%g,%g ", v.X, -v.Y)
	}
	fmt.Fprintf(&d.body, `<polygon points="%s" stroke="%s" fill="%s"/>`+"\n",
		strings.TrimSpace(points.String()), rgba(outline), rgba(fill))
}

func (d *SVGDrawer) DrawDot(size float64, pos vec.Vec2, fill goom.FColor, data any) {
	d.grow(pos, 0)
	fmt.Fprintf(&d.body, `<circle cx="%g" cy="%g" r="%g" fill="%s"/>`+"\n", pos.X, -pos.Y, size*0.01, rgba(fill))
}

func (d *SVGDrawer) Flags() uint {
	return goom.DrawPrimitives | goom.DrawContacts | goom.DrawBoundingVolumes
}

func (d *SVGDrawer) Projection() goom.Projection {
	return d.projection
}

func (d *SVGDrawer) OutlineColor() goom.FColor {
	return goom.FColor{R: 0.2, G: 0.2, B: 0.2, A: 1}
}

func (d *SVGDrawer) PrimitiveColor(prim *goom.Primitive, data any) goom.FColor {
	if prim.Body == nil || prim.Body.IsStatic() {
		return goom.FColor{R: 0.5, G: 0.5, B: 0.5, A: 0.6}
	}
	if !prim.Body.IsAwake() {
		return goom.FColor{R: 0.4, G: 0.4, B: 0.8, A: 0.6}
	}
	return goom.FColor{R: 0.9, G: 0.6, B: 0.2, A: 0.6}
}

func (d *SVGDrawer) ContactColor() goom.FColor {
	return goom.FColor{R: 1, A: 1}
}

func (d *SVGDrawer) BoundingVolumeColor() goom.FColor {
	return goom.FColor{G: 0.6, A: 0.3}
}

func (d *SVGDrawer) Data() any {
	return nil
}

// WriteTo writes the SVG document.
func (d *SVGDrawer) WriteTo(w io.Writer) (int64, error) {
	minX, minY, width, height := -1.0, -1.0, 2.0, 2.0
	if d.maxX >= d.minX {
		const margin = 0.5
		minX, minY = d.minX-margin, d.minY-margin
		width, height = d.maxX-d.minX+2*margin, d.maxY-d.minY+2*margin
	}
	n, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%g %g %g %g" stroke-width="%g">`+"\n%s</svg>\n",
		minX, minY, width, height, math.Max(width, height)/500, d.body.String())
	return int64(n), err
}
