package domain

// IDSet is a set of element identifiers.
type IDSet map[string]struct{}

// NewIDSet builds a set from a list of identifiers.
func NewIDSet(ids []string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Covers reports whether every identifier of other is in s.
func (s IDSet) Covers(other IDSet) bool {
	for id := range other {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// NodesDiffer reports whether two identifier lists describe a different
// structure. Only identity is compared: labels, positions and styles are not
// looked at. Cardinality is compared on the sets, so a repeated identifier
// does not count twice.
func NodesDiffer(oldIDs, newIDs []string) bool {
	oldSet, newSet := NewIDSet(oldIDs), NewIDSet(newIDs)
	if len(oldSet) != len(newSet) {
		return true
	}
	larger, smaller := oldSet, newSet
	if len(newSet) > len(oldSet) {
		larger, smaller = newSet, oldSet
	}
	return !larger.Covers(smaller)
}

// CombosDiffer applies the identity comparison to combo sets.
func CombosDiffer(oldCombos, newCombos []Combo) bool {
	return NodesDiffer(comboIDs(oldCombos), comboIDs(newCombos))
}

func comboIDs(combos []Combo) []string {
	ids := make([]string, 0, len(combos))
	for _, c := range combos {
		ids = append(ids, c.ID)
	}
	return ids
}
