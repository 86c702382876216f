package physics

import "github.com/jakecoffman/cp"

// SupportSensor answers whether a body is standing on something. It owns a
// sensing box in body-local coordinates that is never added to the space;
// each query tests it against the space's shapes matching the layer filter.
type SupportSensor struct {
	space  *cp.Space
	shape  *cp.Shape
	layers Layer
}

// sensorCategory is a category no solid shape uses, so other shapes never
// treat the sensing box as something to collide with.
const sensorCategory = Layer(1) << 31

// NewSupportSensor attaches a sensing region to b that reports overlaps with
// shapes in layers.
func (w *World) NewSupportSensor(b *Body, region cp.BB, layers Layer) *SupportSensor {
	if w == nil || b == nil {
		return nil
	}
	shape := cp.NewBox2(b.body, region, 0)
	shape.Filter = filterFor(sensorCategory, layers)
	return &SupportSensor{space: w.space, shape: shape, layers: layers}
}

// FootRegion returns the default sensing box for a body of the given size:
// 90% of its width, straddling the body's bottom edge and reaching height
// below it.
func FootRegion(width, bodyHeight, height float64) cp.BB {
	hw := width * 0.9 / 2
	bottom := -bodyHeight / 2
	return cp.BB{L: -hw, B: bottom - height, R: hw, T: bottom + height/2}
}

// IsSupported reports whether the sensing region overlaps at least one shape
// in the configured layers with non-zero area. It keeps no history.
func (s *SupportSensor) IsSupported() bool {
	if s == nil || s.space == nil || s.shape == nil {
		return false
	}
	supported := false
	s.space.ShapeQuery(s.shape, func(other *cp.Shape, points *cp.ContactPointSet) {
		if supported || other.Body() == s.shape.Body() {
			return
		}
		for i := 0; i < points.Count; i++ {
			if points.Points[i].Distance < 0 {
				supported = true
				return
			}
		}
	})
	return supported
}

// Layers returns the filter mask the sensor queries against.
func (s *SupportSensor) Layers() Layer {
	return s.layers
}
