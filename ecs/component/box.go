package component

import "image/color"

// Box is a flat colored rectangle centered on the entity's transform.
type Box struct {
	Width  float64
	Height float64
	Color  color.Color
}

var BoxComponent = NewComponent[Box]()
