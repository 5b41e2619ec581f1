package catalog

import "testing"

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text untouched",
			input: "A quiet story about the sea.",
			want:  "A quiet story about the sea.",
		},
		{
			name:  "tags removed",
			input: "<p>A <b>bold</b> claim.</p>",
			want:  "A bold claim.",
		},
		{
			name:  "nested markup",
			input: "<div><p>First.</p><p>Second.</p></div>",
			want:  "First.Second.",
		},
		{
			name:  "escaped markup unescaped to text",
			input: "&lt;b&gt;Loud&lt;/b&gt; praise",
			want:  "<b>Loud</b> praise",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "entities in plain text preserved",
			input: "Fish &amp; chips",
			want:  "Fish &amp; chips",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.input); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, expected %q", tt.input, got, tt.want)
			}
		})
	}
}
