package slug

import "testing"

// TestGenerate exercises the slug generator with typical category and post
// names, special characters, and boundary conditions.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal names ---
		{
			name:  "simple two words",
			input: "Hello World",
			want:  "hello-world",
		},
		{
			name:  "single word",
			input: "Tech",
			want:  "tech",
		},
		{
			name:  "name with year",
			input: "Roadmap 2026",
			want:  "roadmap-2026",
		},
		{
			name:  "already lowercase",
			input: "already lowercase",
			want:  "already-lowercase",
		},

		// --- Special characters ---
		{
			name:  "ampersand collapses",
			input: "Tech & Life",
			want:  "tech-life",
		},
		{
			name:  "punctuation stripped",
			input: "Hello, World! How's it going?",
			want:  "hello-world-hows-it-going",
		},
		{
			name:  "hash and dollar",
			input: "Issue #42 costs $100",
			want:  "issue-42-costs-100",
		},
		{
			name:  "underscore preserved",
			input: "snake_case name",
			want:  "snake_case-name",
		},
		{
			name:  "existing hyphens removed",
			input: "pre-release notes",
			want:  "prerelease-notes",
		},

		// --- Whitespace handling ---
		{
			name:  "multiple spaces collapse",
			input: "too   many    spaces",
			want:  "too-many-spaces",
		},
		{
			name:  "leading and trailing whitespace",
			input: "   padded   ",
			want:  "padded",
		},
		{
			name:  "tabs and newlines",
			input: "tab\there\nnewline",
			want:  "tab-here-newline",
		},

		// --- Edge cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only special characters",
			input: "!!!???",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
