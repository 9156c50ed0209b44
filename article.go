package trialsum

import "strings"

// MaxAuthors is how many author names are listed before "et al.".
const MaxAuthors = 3

// Article is fetched content prepared for structured extraction.
type Article struct {
	Title     string
	Authors   string
	Published string
	DOI       string

	// Abstract is plain text with each section anchor label on its own
	// line (or as a "Label:" prefix) followed by the section body.
	Abstract string
}

// ArticleReader turns raw fetched content into an Article.
type ArticleReader interface {
	// Read parses content. Returns ENOTFOUND when the reader does not
	// recognize any abstract in the content.
	Read(content string) (*Article, error)
}

// FormatAuthors lists up to MaxAuthors names and appends "et al." when
// names were left out.
func FormatAuthors(names []string) string {
	if len(names) <= MaxAuthors {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:MaxAuthors], ", ") + " et al."
}
