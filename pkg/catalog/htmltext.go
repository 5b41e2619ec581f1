package catalog

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup removes HTML formatting from text, returning just the visible
// character data. Text without any markup is returned untouched.
func StripMarkup(text string) string {
	if !strings.Contains(text, "<") && !strings.Contains(text, "&lt;") {
		return text
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(text))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF ends the walk; any other tokenizer error also just
			// terminates it, keeping whatever text was collected.
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		}
	}
}
