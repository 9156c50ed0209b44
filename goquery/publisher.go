package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Publisher identifies the site an article page was served by.
type Publisher string

// Recognized publishers.
const (
	PublisherUnknown Publisher = ""
	PublisherJAMA    Publisher = "jama"
	PublisherPubMed  Publisher = "pubmed"
	PublisherPMC     Publisher = "pmc"
	PublisherNEJM    Publisher = "nejm"
	PublisherLancet  Publisher = "lancet"
	PublisherBMJ     Publisher = "bmj"
)

// publisherContainers holds abstract containers tried before the generic
// list for pages from a known publisher.
var publisherContainers = map[Publisher][]string{
	PublisherJAMA:   {"div.abstract-content", "section.abstract"},
	PublisherPubMed: {"#eng-abstract", "div.abstract-content"},
	PublisherPMC:    {"section.abstract", "#abstract1", "#abstract-1"},
	PublisherNEJM:   {"#article_Abstract", "section#abstract"},
	PublisherLancet: {"section#author-abstract", "div.section-paragraph"},
	PublisherBMJ:    {"div.section.abstract", "#abstract-1"},
}

// DetectPublisher parses html and identifies its publisher.
func DetectPublisher(html string) Publisher {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return PublisherUnknown
	}
	return detectPublisher(doc)
}

// detectPublisher checks NCBI database markers first, then the publisher
// named in citation or Open Graph metadata.
func detectPublisher(doc *goquery.Document) Publisher {
	switch strings.ToLower(metaContent(doc, "ncbi_db")) {
	case "pubmed":
		return PublisherPubMed
	case "pmc":
		return PublisherPMC
	}

	names := strings.ToLower(strings.Join([]string{
		metaContent(doc, "citation_publisher"),
		metaContent(doc, "citation_journal_title"),
		metaContent(doc, "dc.publisher"),
		propertyContent(doc, "og:site_name"),
	}, " "))

	switch {
	case strings.Contains(names, "jama"), strings.Contains(names, "american medical association"):
		return PublisherJAMA
	case strings.Contains(names, "new england journal"), strings.Contains(names, "nejm"):
		return PublisherNEJM
	case strings.Contains(names, "lancet"):
		return PublisherLancet
	case strings.Contains(names, "bmj"):
		return PublisherBMJ
	case strings.Contains(names, "pubmed central"):
		return PublisherPMC
	case strings.Contains(names, "pubmed"):
		return PublisherPubMed
	}
	return PublisherUnknown
}
