// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "plain paragraph",
			source: "Just a plain paragraph.",
			want:   []string{"<p>Just a plain paragraph.</p>"},
		},
		{
			name:   "heading with anchor id",
			source: "## Getting Started",
			want:   []string{"<h2", `id="getting-started"`, "Getting Started</h2>"},
		},
		{
			name:   "emphasis and code",
			source: "Use `go test` and **read** the output.",
			want:   []string{"<code>go test</code>", "<strong>read</strong>"},
		},
		{
			name:   "gfm table",
			source: "| a | b |\n|---|---|\n| 1 | 2 |",
			want:   []string{"<table>", "<td>1</td>"},
		},
		{
			name:   "gfm strikethrough",
			source: "~~gone~~",
			want:   []string{"<del>gone</del>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.source)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestToHTMLEscapesRawHTML(t *testing.T) {
	got, err := ToHTML("<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw script tag passed through: %s", got)
	}
}
