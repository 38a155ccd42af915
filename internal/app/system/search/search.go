// internal/app/system/search/search.go
//
// Package search holds the shared pieces of the global search endpoint:
// which entity kinds a query fans out to, and when a user query should
// pivot from name matching to an exact email lookup.
package search

import "strings"

// Entity kinds the global search can fan out to.
const (
	KindProjects = "projects"
	KindSchools  = "schools"
	KindUsers    = "users"
)

// ParseKinds interprets the types parameter of a search request. The value
// is a comma-separated list; empty or unrecognized-only input selects every
// kind.
func ParseKinds(raw string) map[string]bool {
	kinds := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case KindProjects:
			kinds[KindProjects] = true
		case KindSchools:
			kinds[KindSchools] = true
		case KindUsers:
			kinds[KindUsers] = true
		}
	}
	if len(kinds) == 0 {
		return map[string]bool{KindProjects: true, KindSchools: true, KindUsers: true}
	}
	return kinds
}

// EmailPivotOK reports whether a user query should switch from the folded
// name prefix to an exact email lookup. Name prefixes never contain '@',
// so the presence of one is a clear signal, and the exact lookup keeps the
// query on the unique email index.
func EmailPivotOK(query string) bool {
	return strings.Contains(query, "@")
}
