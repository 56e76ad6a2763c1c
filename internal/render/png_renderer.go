package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
)

// PNGRenderer is a concrete Renderer backed by fogleman/gg: a persistent
// *gg.Context reused across frames, an optional loaded font face, and
// DrawString falling back to gg's built-in face when no font path was
// configured or the load failed.
type PNGRenderer struct {
	mu      sync.Mutex
	dc      *gg.Context
	width   float64
	height  float64
	fontOK  bool
	fontPth string

	// outDir, if non-empty, makes DrawWith save each frame as a numbered
	// PNG file under it, for headless runs with no live viewer.
	outDir string
	frame  int
}

// NewPNGRenderer allocates a renderer producing width x height images.
// fontPath is optional; if empty or unloadable, DrawString uses gg's
// default face. outDir is optional; if non-empty, every DrawWith call also
// writes a numbered PNG file into it.
func NewPNGRenderer(width, height int, fontPath, outDir string) *PNGRenderer {
	dc := gg.NewContext(width, height)
	r := &PNGRenderer{dc: dc, width: float64(width), height: float64(height), fontPth: fontPath, outDir: outDir}
	if fontPath != "" {
		if err := dc.LoadFontFace(fontPath, 14); err == nil {
			r.fontOK = true
		}
	}
	return r
}

// DrawWith clears the canvas, runs procedure against a gg-backed
// GraphicsContext, and leaves the result available via Image. If outDir was
// configured, it also writes the frame to disk as frame-%06d.png.
func (r *PNGRenderer) DrawWith(procedure DrawFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dc.Identity()
	r.dc.SetRGB(1, 1, 1)
	r.dc.Clear()

	procedure(&ggContext{dc: r.dc, fontOK: r.fontOK, fontPth: r.fontPth})

	if r.outDir == "" {
		return
	}
	path := filepath.Join(r.outDir, fmt.Sprintf("frame-%06d.png", r.frame))
	r.frame++
	if err := r.dc.SavePNG(path); err != nil {
		_ = os.Remove(path) // best-effort: a partially-written frame should not linger
	}
}

// Image returns the most recently drawn frame. Safe to call concurrently
// with DrawWith; the returned image is a snapshot, not a live view.
func (r *PNGRenderer) Image() image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rgba, ok := r.dc.Image().(*image.RGBA); ok {
		cp := *rgba
		cp.Pix = append([]uint8(nil), rgba.Pix...)
		return &cp
	}
	return r.dc.Image()
}

// ggContext adapts *gg.Context to the GraphicsContext interface for the
// lifetime of a single DrawWith call.
type ggContext struct {
	dc      *gg.Context
	fontOK  bool
	fontPth string
}

func (g *ggContext) SetColor(r, gr, b, a uint8) {
	g.dc.SetRGBA255(int(r), int(gr), int(b), int(a))
}

// SetFont attempts to load name as a font file path at the given size,
// silently keeping the previous (or gg's default) face on failure.
func (g *ggContext) SetFont(name string, size float64) {
	if name == "" {
		return
	}
	if err := g.dc.LoadFontFace(name, size); err == nil {
		g.fontOK = true
	}
}

func (g *ggContext) DrawString(text string, x, y float64) {
	g.dc.DrawString(text, x, y)
}

func (g *ggContext) FillRect(x, y, w, h float64) {
	g.dc.DrawRectangle(x, y, w, h)
	g.dc.Fill()
}

func (g *ggContext) DrawRect(x, y, w, h float64) {
	g.dc.DrawRectangle(x, y, w, h)
	g.dc.Stroke()
}

func (g *ggContext) SetStroke(width float64) {
	g.dc.SetLineWidth(width)
}

func (g *ggContext) Translate(dx, dy float64) {
	g.dc.Translate(dx, dy)
}

func (g *ggContext) Scale(sx, sy float64) {
	g.dc.Scale(sx, sy)
}
