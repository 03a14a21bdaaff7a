package matching

// MaxSelection is the number of cards a player picks before checking.
const MaxSelection = 2

// Selection holds the currently chosen card IDs in pick order. It never holds
// more than MaxSelection IDs.
type Selection struct {
	ids []string
}

// Add picks a card. Picking a card that is already selected does nothing;
// picking a third card drops the previous two and starts over with the new
// card. Returns true when the selection changed.
func (s *Selection) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	if len(s.ids) >= MaxSelection {
		s.ids = []string{id}
		return true
	}
	s.ids = append(s.ids, id)
	return true
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	for _, selected := range s.ids {
		if selected == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the selected IDs in pick order.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len returns the number of selected cards.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
}
