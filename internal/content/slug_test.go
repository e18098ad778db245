package content

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"My Cool Post!", "my-cool-post"},
		{"my-cool-post!", "my-cool-post"},
		{"Hello World", "hello-world"},
		{"  spaced   out  ", "spaced-out"},
		{"C++ & Go: A Comparison", "c-go-a-comparison"},
		{"already-a-slug", "already-a-slug"},
		{"Émigré Café", "emigre-cafe"},
		{"___", "___"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"My Cool Post!", "Hello World", "a--b", "Émigré Café"}
	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}
