// Package normalize canonicalizes identity fields before they are stored
// or compared. Stores call these so the same value never exists in two
// spellings.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name collapses interior whitespace and trims.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// WalletAddress lowercases a hex wallet address; addresses are compared
// case-insensitively everywhere.
func WalletAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Query trims a search query and caps its length so regex searches stay
// bounded.
func Query(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
