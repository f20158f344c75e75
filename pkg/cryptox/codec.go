package cryptox

import "strings"

// Separator joins the two halves of a key ("prefix.secret") and of a stored
// identifier ("prefix.hashedKey").
const Separator = "."

// Join concatenates left and right with a single Separator. No escaping is
// done, callers rely on left being separator free (prefixes are alphanumeric).
func Join(left, right string) string {
	return left + Separator + right
}

// Split cuts s at the first Separator. Everything after it, including any
// further separators, is returned as right. Without a separator the whole
// string is left and right is empty.
func Split(s string) (left, right string) {
	left, right, _ = strings.Cut(s, Separator)
	return left, right
}
