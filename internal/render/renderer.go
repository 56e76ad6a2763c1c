// Package render defines the boundary between the simulation core and the
// graphical front-end. The GUI itself — a control panel with sliders plus
// a canvas — is out of scope; this package only defines the abstract
// contract the simulator depends on, plus one concrete adapter
// (PNGRenderer) that exercises it without requiring an actual GUI.
package render

// GraphicsContext abstracts 2D drawing: color/font state, text and
// rectangle primitives, stroke width, and coordinate transforms. The
// renderers in this package run the procedure in plain canvas coordinates:
// origin at the top-left corner, no translation to the arena center and no
// scaling. The simulator's draw procedure applies its own Translate to
// center the arena.
type GraphicsContext interface {
	SetColor(r, g, b, a uint8)
	SetFont(name string, size float64)
	DrawString(text string, x, y float64)
	FillRect(x, y, w, h float64)
	DrawRect(x, y, w, h float64)
	SetStroke(width float64)
	Translate(dx, dy float64)
	Scale(sx, sy float64)
}

// DrawFunc is the draw procedure the simulator hands to a Renderer on each
// Redraw event.
type DrawFunc func(GraphicsContext)

// Renderer is the boundary consumed by the core: it accepts a draw
// procedure and triggers a repaint under its own paint callback.
type Renderer interface {
	DrawWith(procedure DrawFunc)
}

// NullRenderer discards every draw procedure. It is the Renderer used for
// headless runs and for Hz == 0, where no Redraw event is ever scheduled
// and DrawWith is simply never called.
type NullRenderer struct{}

func (NullRenderer) DrawWith(DrawFunc) {}
