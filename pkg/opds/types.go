// Package opds provides the Atom/OPDS catalog data model plus parsing,
// validation and serialization for it.
package opds

import "encoding/xml"

// Link relations recognized by the renderer. Other relations are carried
// through but ignored when building HTML.
const (
	RelImage       = "http://opds-spec.org/image"
	RelAcquisition = "http://opds-spec.org/acquisition"
	RelSelf        = "self"
)

// Atom/OPDS namespace URIs used on generated feeds.
const (
	NSAtom    = "http://www.w3.org/2005/Atom"
	NSOPDS    = "http://opds-spec.org/2010/catalog"
	NSDCTerms = "http://purl.org/dc/terms/"
)

// Feed is a parsed OPDS catalog. Entries keep document order.
type Feed struct {
	XMLName      xml.Name `xml:"feed"`
	Xmlns        string   `xml:"xmlns,attr,omitempty"`
	XmlnsOPDS    string   `xml:"xmlns:opds,attr,omitempty"`
	XmlnsDCTerms string   `xml:"xmlns:dcterms,attr,omitempty"`
	Title        string   `xml:"title"`
	ID           string   `xml:"id"`
	Updated      string   `xml:"updated"`
	Author       *Author  `xml:"author,omitempty"`
	Links        []Link   `xml:"link"`
	Entries      []Entry  `xml:"entry"`
}

// Entry is a single publication in the catalog.
type Entry struct {
	XMLName xml.Name `xml:"entry"`
	ID      string   `xml:"id"`
	Updated string   `xml:"updated"`
	Title   string   `xml:"title"`
	Author  *Author  `xml:"author,omitempty"`
	Content *Content `xml:"content,omitempty"`
	Links   []Link   `xml:"link"`
}

// Author holds the atom author block.
type Author struct {
	Name string `xml:"name"`
}

// Content is an entry description. The Text may be the empty string, which
// callers treat the same as an absent Content.
type Content struct {
	Type string `xml:"type,attr,omitempty"`
	Text string `xml:",chardata"`
}

// Link is an OPDS link. Acquisition links use Title as the download label and
// the element body text as a short format description.
type Link struct {
	Rel   string `xml:"rel,attr,omitempty"`
	Href  string `xml:"href,attr"`
	Type  string `xml:"type,attr,omitempty"`
	Title string `xml:"title,attr,omitempty"`
	Text  string `xml:",chardata"`
}

// AuthorName returns the entry author's name, or the empty string when the
// author block is missing.
func (e *Entry) AuthorName() string {
	if e.Author == nil {
		return ""
	}
	return e.Author.Name
}

// Description returns the entry content text, or the empty string when the
// content element is missing. Absent and empty content are equivalent.
func (e *Entry) Description() string {
	if e.Content == nil {
		return ""
	}
	return e.Content.Text
}

// LinksByRel returns the entry's links with the given relation, preserving
// document order.
func (e *Entry) LinksByRel(rel string) []Link {
	var out []Link
	for _, l := range e.Links {
		if l.Rel == rel {
			out = append(out, l)
		}
	}
	return out
}
