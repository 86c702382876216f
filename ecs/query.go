package ecs

// intersect returns live entities present in every set, in the order of the smallest set.
func (w *World) intersect(sets ...*sparseSet) []Entity {
	if len(sets) == 0 {
		return nil
	}
	smallest := 0
	for i, s := range sets {
		if s.len() == 0 {
			return nil
		}
		if s.len() < sets[smallest].len() {
			smallest = i
		}
	}
	out := make([]Entity, 0, sets[smallest].len())
	for _, id := range sets[smallest].ids() {
		matched := true
		for i, s := range sets {
			if i != smallest && !s.has(id) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		e := w.entities.entity(id)
		if w.entities.isAlive(e) {
			out = append(out, e)
		}
	}
	return out
}
