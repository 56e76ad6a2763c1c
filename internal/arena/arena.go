// Package arena defines the rectangular domain particles bounce inside.
package arena

// Arena is the rectangular simulation domain, centered at the origin.
type Arena struct {
	Width  float64
	Height float64
}

// Default matches the reference geometry: 1000x500 units, origin at center.
func Default() Arena {
	return Arena{Width: 1000, Height: 500}
}

// Left, Right, Top and Bottom return the wall coordinates. Top < Bottom in
// screen-space convention (y grows downward is NOT assumed here; these are
// plain Cartesian bounds with origin at the center).
func (a Arena) Left() float64   { return -a.Width / 2 }
func (a Arena) Right() float64  { return a.Width / 2 }
func (a Arena) Top() float64    { return -a.Height / 2 }
func (a Arena) Bottom() float64 { return a.Height / 2 }

// Contains reports whether a disk of the given radius centered at (x, y)
// lies fully within the arena, up to the floating-point tolerance eps.
func (a Arena) Contains(x, y, radius, eps float64) bool {
	if x < a.Left()+radius-eps || x > a.Right()-radius+eps {
		return false
	}
	if y < a.Top()+radius-eps || y > a.Bottom()-radius+eps {
		return false
	}
	return true
}
