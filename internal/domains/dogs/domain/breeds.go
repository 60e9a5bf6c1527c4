package domain

import "strings"

// FilterBreeds is the breed picker view: a case-insensitive substring match over the catalog,
// keeping catalog order. A blank term returns every breed.
func FilterBreeds(breeds []string, term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]string, 0, len(breeds))
	for _, b := range breeds {
		if term == "" || strings.Contains(strings.ToLower(b), term) {
			out = append(out, b)
		}
	}
	return out
}
