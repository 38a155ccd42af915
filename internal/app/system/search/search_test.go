package search

import "testing"

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty selects all", "", []string{KindProjects, KindSchools, KindUsers}},
		{"single kind", "projects", []string{KindProjects}},
		{"two kinds", "schools,users", []string{KindSchools, KindUsers}},
		{"whitespace and case", " Projects , USERS ", []string{KindProjects, KindUsers}},
		{"unknown only selects all", "organizations", []string{KindProjects, KindSchools, KindUsers}},
		{"unknown mixed with known", "organizations,schools", []string{KindSchools}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseKinds(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseKinds(%q) selected %d kinds, want %d", tt.raw, len(got), len(tt.want))
			}
			for _, k := range tt.want {
				if !got[k] {
					t.Errorf("ParseKinds(%q) missing %q", tt.raw, k)
				}
			}
		})
	}
}

func TestEmailPivotOK(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"user@example.com", true},
		{"user@", true},
		{"@domain", true},
		{"john doe", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := EmailPivotOK(tt.query); got != tt.want {
			t.Errorf("EmailPivotOK(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}
