package physics

import (
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
)

// Layer is a bitmask of collision categories.
type Layer uint

// LayerAll matches every category. Same bits as cp.ALL_CATEGORIES, which
// is a variable and cannot seed a constant.
const LayerAll = ^Layer(0)

// Layers resolves configured layer names to category bits.
type Layers map[string]uint

// Mask ORs the bits of the named layers.
func (l Layers) Mask(names ...string) (Layer, error) {
	var mask Layer
	for _, name := range names {
		bit, ok := l[name]
		if !ok {
			return 0, fmt.Errorf("physics: unknown layer %q", name)
		}
		if bit >= 31 {
			return 0, fmt.Errorf("physics: layer %q bit %d out of range", name, bit)
		}
		mask |= 1 << bit
	}
	return mask, nil
}

// Names returns the configured layer names in bit order.
func (l Layers) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return l[names[i]] < l[names[j]] })
	return names
}

func filterFor(categories, mask Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, uint(categories), uint(mask))
}
