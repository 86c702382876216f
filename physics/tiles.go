package physics

import "github.com/jakecoffman/cp"

// AddTileLayer merges solid tiles of a row-major grid into as few static
// boxes as possible. Row 0 is the top of the level; the returned shapes are in
// world coordinates with +Y up, so the grid's bottom row sits on y=0.
func (w *World) AddTileLayer(tiles []int, width, height int, tileSize float64, layer Layer) []*cp.Shape {
	if w == nil || width <= 0 || height <= 0 || len(tiles) != width*height {
		return nil
	}
	var shapes []*cp.Shape
	processed := make([]bool, width*height)
	solid := func(idx int) bool {
		return !processed[idx] && tiles[idx] != 0
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if !solid(idx) {
				processed[idx] = true
				continue
			}

			run := 1
			for x+run < width && solid(y*width+x+run) {
				run++
			}

			rows := 1
		heightLoop:
			for y+rows < height {
				for xi := x; xi < x+run; xi++ {
					if !solid((y+rows)*width + xi) {
						break heightLoop
					}
				}
				rows++
			}

			bb := cp.BB{
				L: float64(x) * tileSize,
				R: float64(x+run) * tileSize,
				B: float64(height-(y+rows)) * tileSize,
				T: float64(height-y) * tileSize,
			}
			shapes = append(shapes, w.AddStaticBox(bb, layer))

			for yy := y; yy < y+rows; yy++ {
				for xx := x; xx < x+run; xx++ {
					processed[yy*width+xx] = true
				}
			}
		}
	}
	return shapes
}
