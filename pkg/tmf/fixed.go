package tmf

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FixedScale is the Q16.16 scale factor.
const FixedScale = 65536.0

// ToFixed converts v to Q16.16 fixed point: floor(v * 65536), saturated to
// the int32 range. NaN converts to 0.
func ToFixed(v float64) int32 {
	f := math.Floor(v * FixedScale)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}

// FromFixed converts a Q16.16 value back to a float.
func FromFixed(v int32) float64 {
	return float64(v) / FixedScale
}

// NewVertice quantizes a point or vector.
func NewVertice(v mgl64.Vec3) Vertice {
	return Vertice{X: ToFixed(v.X()), Y: ToFixed(v.Y()), Z: ToFixed(v.Z())}
}

// Vec3 converts the vertice back to floating point.
func (v Vertice) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{FromFixed(v.X), FromFixed(v.Y), FromFixed(v.Z)}
}

// Bounds returns the corners of the box enclosing the model's quantized
// vertices. A model without vertices has zero bounds.
func (m *ModelHeader) Bounds() (lo, hi mgl64.Vec3) {
	for i, v := range m.Vertices {
		p := v.Vec3()
		if i == 0 {
			lo, hi = p, p
			continue
		}
		for axis := 0; axis < 3; axis++ {
			lo[axis] = math.Min(lo[axis], p[axis])
			hi[axis] = math.Max(hi[axis], p[axis])
		}
	}
	return lo, hi
}
