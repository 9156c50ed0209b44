package trialsum

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., from an Extractor).
	// Headings survive as "#" lines, which the structured extractor
	// accepts as section anchors.
	Convert(html string) (string, error)
}
