package density

import "sort"

// SplinePoint is one control point of a Spline: a location on the
// coordinate axis, the function's value there, and the derivative used for
// cubic Hermite interpolation between neighboring points.
type SplinePoint struct {
	Location   float64
	Value      Function
	Derivative float64
}

// Spline evaluates Coordinate once, then cubic-Hermite-interpolates between
// the two bracketing Points (clamping to the first/last point's value
// outside the point range), the vanilla terrain-shaping technique for
// turning a continuous "coordinate" density (e.g. continentalness) into a
// height-like output.
type Spline struct {
	Coordinate Function
	Points     []SplinePoint // must be sorted by Location ascending
}

func (s *Spline) Compute(x, y, z float64) float64 {
	c := s.Coordinate.Compute(x, y, z)
	return s.evalAt(c, x, y, z)
}

func (s *Spline) evalAt(c, x, y, z float64) float64 {
	pts := s.Points
	if len(pts) == 0 {
		return 0
	}
	if c <= pts[0].Location {
		return pts[0].Value.Compute(x, y, z)
	}
	last := pts[len(pts)-1]
	if c >= last.Location {
		return last.Value.Compute(x, y, z)
	}
	idx := sort.Search(len(pts), func(i int) bool { return pts[i].Location > c }) - 1
	if idx < 0 {
		idx = 0
	}
	p0, p1 := pts[idx], pts[idx+1]
	span := p1.Location - p0.Location
	t := (c - p0.Location) / span
	v0 := p0.Value.Compute(x, y, z)
	v1 := p1.Value.Compute(x, y, z)
	d0 := p0.Derivative * span
	d1 := p1.Derivative * span
	return hermite(t, v0, v1, d0, d1)
}

func hermite(t, v0, v1, d0, d1 float64) float64 {
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return h00*v0 + h10*d0 + h01*v1 + h11*d1
}

func (s *Spline) ComputeSlice(positions []Pos, out []float64) {
	defaultComputeSlice(s, positions, out)
}

func (s *Spline) Min() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	m := s.Points[0].Value.Min()
	for _, p := range s.Points[1:] {
		if v := p.Value.Min(); v < m {
			m = v
		}
	}
	return m
}
func (s *Spline) Max() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	m := s.Points[0].Value.Max()
	for _, p := range s.Points[1:] {
		if v := p.Value.Max(); v > m {
			m = v
		}
	}
	return m
}
func (s *Spline) TreeHash() uint64 {
	parts := []uint64{s.Coordinate.TreeHash()}
	for _, p := range s.Points {
		parts = append(parts, floatBits(p.Location), p.Value.TreeHash(), floatBits(p.Derivative))
	}
	return combineHash(0x53504C494E45, parts...)
}
