// Package preview provides an interactive catalog entry browser using Bubble Tea.
package preview

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/myoung/opds-shelf/pkg/opds"
)

// wrapText wraps text to the specified width, breaking at word boundaries when possible
func wrapText(text string, width int) string {
	if width <= 0 {
		width = 70
	}

	var result strings.Builder
	var line strings.Builder
	lineLen := 0

	words := strings.Fields(text)
	for i, word := range words {
		wordLen := len(word)

		// If adding this word would exceed width, start a new line
		if lineLen > 0 && lineLen+1+wordLen > width {
			result.WriteString(line.String())
			result.WriteString("\n")
			line.Reset()
			lineLen = 0
		}

		// Add space before word if not at start of line
		if lineLen > 0 {
			line.WriteString(" ")
			lineLen++
		}

		line.WriteString(word)
		lineLen += wordLen

		// Write the last line
		if i == len(words)-1 {
			result.WriteString(line.String())
		}
	}

	return result.String()
}

// FormatCompactListItem formats a single catalog entry in compact list format.
// Example: "1. Ursula K. Le Guin - A Wizard of Earthsea [3 formats]"
func FormatCompactListItem(index int, entry opds.Entry) string {
	downloads := len(entry.LinksByRel(opds.RelAcquisition))
	noun := "formats"
	if downloads == 1 {
		noun = "format"
	}
	return fmt.Sprintf("%d. %s - %s [%d %s]",
		index+1, entry.AuthorName(), entry.Title, downloads, noun)
}

// FormatDetailedItem formats a catalog entry for the detail view.
func FormatDetailedItem(entry opds.Entry) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Title:   %s\n", entry.Title))
	b.WriteString(fmt.Sprintf("Author:  %s\n", entry.AuthorName()))
	b.WriteString(fmt.Sprintf("Updated: %s\n", entry.Updated))

	if desc := entry.Description(); desc != "" {
		b.WriteString("\n")
		b.WriteString(wrapText(desc, 78))
		b.WriteString("\n")
	}

	if covers := entry.LinksByRel(opds.RelImage); len(covers) > 0 {
		b.WriteString("\nCovers:\n")
		for _, link := range covers {
			b.WriteString(fmt.Sprintf("  %s\n", link.Href))
		}
	}

	if downloads := entry.LinksByRel(opds.RelAcquisition); len(downloads) > 0 {
		b.WriteString("\nAvailable downloads:\n")
		for _, link := range downloads {
			line := link.Title
			if line == "" {
				line = link.Href
			}
			if link.Text != "" {
				line += " - " + link.Text
			}
			b.WriteString(fmt.Sprintf("  %s\n    %s\n", line, link.Href))
		}
	}

	return b.String()
}

// FormatXMLEntry renders the entry as it will appear in the generated feed.
func FormatXMLEntry(entry opds.Entry) string {
	data, err := xml.MarshalIndent(&entry, "", "  ")
	if err != nil {
		return fmt.Sprintf("failed to marshal entry: %v", err)
	}
	return string(data)
}
