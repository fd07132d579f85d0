package handlers

import (
	"fmt"
	"html"
	"math"
	"net/http"
	"strings"

	"github.com/abrezinsky/tinydecisions/internal/engine"
)

const (
	defaultWheelSize = 400
	minWheelSize     = 64
	maxWheelSize     = 2048
)

// handleWheelSVG draws the wheel's display arcs, pointer at the top
func (h *Handlers) handleWheelSVG(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	size, err := parseIntQuery(r, "size", defaultWheelSize)
	if err != nil {
		respondError(w, err)
		return
	}
	size = max(minWheelSize, min(maxWheelSize, size))

	layout, err := h.Wheels.Segments(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(renderWheelSVG(layout.Segments, float64(size))))
}

// renderWheelSVG returns an SVG document with one wedge per segment.
// Angles run clockwise from 12 o'clock, matching the pointer.
func renderWheelSVG(segments []engine.Segment, size float64) string {
	c := size / 2
	radius := c - 2

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`, size, size, size, size)
	b.WriteString("\n")

	if len(segments) == 0 {
		fmt.Fprintf(&b, `  <circle cx="%g" cy="%g" r="%g" fill="#e5e7eb"/>`+"\n", c, c, radius)
		b.WriteString("</svg>\n")
		return b.String()
	}

	for _, seg := range segments {
		width := seg.DisplayWidth()
		if width <= 0 {
			continue
		}
		fill := seg.Item.Color
		if fill == "" {
			fill = "#9ca3af"
		}
		if width >= engine.FullCircle {
			fmt.Fprintf(&b, `  <circle cx="%g" cy="%g" r="%g" fill="%s"/>`+"\n", c, c, radius, html.EscapeString(fill))
			continue
		}

		x1, y1 := polar(c, radius, seg.DisplayStart)
		x2, y2 := polar(c, radius, seg.DisplayEnd)
		large := 0
		if width > engine.FullCircle/2 {
			large = 1
		}
		fmt.Fprintf(&b, `  <path d="M%g %g L%.3f %.3f A%g %g 0 %d 1 %.3f %.3f Z" fill="%s" stroke="#ffffff" stroke-width="1"/>`+"\n",
			c, c, x1, y1, radius, radius, large, x2, y2, html.EscapeString(fill))
	}

	for _, seg := range segments {
		if seg.DisplayWidth() <= 0 {
			continue
		}
		tx, ty := polar(c, radius*0.62, seg.DisplayMidpoint())
		fmt.Fprintf(&b, `  <text x="%.3f" y="%.3f" font-family="Arial, sans-serif" font-size="%g" fill="#ffffff" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			tx, ty, math.Round(size/25), html.EscapeString(seg.Item.Label))
	}

	b.WriteString("</svg>\n")
	return b.String()
}

// polar converts a clockwise angle from 12 o'clock into SVG coordinates
func polar(center, radius, degrees float64) (float64, float64) {
	rad := degrees * math.Pi / 180
	return center + radius*math.Sin(rad), center - radius*math.Cos(rad)
}
