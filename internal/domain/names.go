package domain

import "strings"

// NormalizeName is the key form of an ingredient name: lowercase, with
// whitespace runs collapsed to one space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
