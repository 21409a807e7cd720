package ecs

// IntersectEntities returns entity ids present in both sets, ordered by the
// smaller set's dense order. ForEach2 and ForEach3 walk this list, so a
// Brain+Fighter query costs as much as the handful of enemies, not the whole
// arena.
func IntersectEntities(a, b *SparseSet) []int {
	if a == nil || b == nil {
		return nil
	}
	if len(a.denseEntities) > len(b.denseEntities) {
		a, b = b, a
	}
	out := make([]int, 0, len(a.denseEntities))
	for _, id := range a.denseEntities {
		if b.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
