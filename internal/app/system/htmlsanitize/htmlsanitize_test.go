package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/globalclassrooms/classhub/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	if got := htmlsanitize.Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	if got := htmlsanitize.Sanitize("Hello, World!"); got != "Hello, World!" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	input := "<p>Hello</p><script>alert('xss')</script>"
	if got := htmlsanitize.Sanitize(input); got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestSanitize_RemovesOnclick(t *testing.T) {
	input := `<button onclick="alert('xss')">Click</button>`
	if got := htmlsanitize.Sanitize(input); strings.Contains(got, "onclick") {
		t.Errorf("expected onclick attribute removed, got %q", got)
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	input := `<a href="javascript:alert('xss')">Click</a>`
	if got := htmlsanitize.Sanitize(input); strings.Contains(got, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", got)
	}
}

func TestSanitize_RemovesIframe(t *testing.T) {
	input := `<p>Content</p><iframe src="https://evil.com"></iframe>`
	got := htmlsanitize.Sanitize(input)
	if strings.Contains(got, "iframe") {
		t.Error("expected iframe to be removed")
	}
	if !strings.Contains(got, "Content") {
		t.Error("expected safe content to be preserved")
	}
}

func TestSanitize_AllowsLists(t *testing.T) {
	input := "<ul><li>Item 1</li><li>Item 2</li></ul>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected list preserved, got %q", got)
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Hello, World!", "Hello, World!"},
		{"<p>Hello</p>", "Hello"},
		{"<b>Tree</b> planting", "Tree planting"},
		{"  <script>alert(1)</script>Plain  ", "Plain"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.StripTags(tt.in); got != tt.want {
			t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
