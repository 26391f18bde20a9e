package render

// Viewport is the window of a grid visible in a pane.
type Viewport struct {
	CamX, CamY   int // top-left grid coordinate
	ViewW, ViewH int // visible size in grid cells
}

// NewViewport centres a viewW x viewH window on (focusX, focusY), clamped
// so it never shows past the grid edges.
func NewViewport(focusX, focusY, viewW, viewH, gridW, gridH int) Viewport {
	viewW = max(0, min(viewW, gridW))
	viewH = max(0, min(viewH, gridH))
	camX := max(0, min(focusX-viewW/2, gridW-viewW))
	camY := max(0, min(focusY-viewH/2, gridH-viewH))
	return Viewport{CamX: camX, CamY: camY, ViewW: viewW, ViewH: viewH}
}

// ToView converts grid coordinates to 0-based view coordinates. ok is
// false outside the viewport.
func (v Viewport) ToView(gx, gy int) (vx, vy int, ok bool) {
	vx, vy = gx-v.CamX, gy-v.CamY
	return vx, vy, vx >= 0 && vx < v.ViewW && vy >= 0 && vy < v.ViewH
}
