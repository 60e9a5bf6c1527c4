package domain

// MatchResult is the dog the service picked from the favorites, plus whether it is on screen.
type MatchResult struct {
	Dog     Dog
	Visible bool
}

// Dismissed returns the same match hidden from view.
func (m MatchResult) Dismissed() MatchResult {
	m.Visible = false
	return m
}
