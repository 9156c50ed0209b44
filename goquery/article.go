package goquery

import (
	"html"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/trialsum"
)

// Ensure ArticleReader implements trialsum.ArticleReader at compile time.
var _ trialsum.ArticleReader = (*ArticleReader)(nil)

// ArticleReader reads journal article pages: Highwire citation meta tags,
// Open Graph metadata and abstract containers in the page body.
type ArticleReader struct{}

// NewArticleReader creates a new ArticleReader.
func NewArticleReader() *ArticleReader {
	return &ArticleReader{}
}

// abstractContainers are tried in order when the page has no
// citation_abstract meta tag.
var abstractContainers = []string{
	"section.abstract",
	"div.abstract",
	"div[class*='abstract']",
	"#abstract",
	"[id^='abstract']",
}

// blockSelector matches the elements of an abstract emitted as lines.
const blockSelector = "h2, h3, h4, h5, h6, p"

// Read parses an article page. Returns ENOTFOUND when the page has no
// abstract.
func (r *ArticleReader) Read(content string) (*trialsum.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, trialsum.Errorf(trialsum.EINVALID, "failed to parse HTML: %v", err)
	}

	abstract := citationAbstract(doc)
	if abstract == "" {
		abstract = containerAbstract(doc, detectPublisher(doc))
	}
	if abstract == "" {
		return nil, trialsum.Errorf(trialsum.ENOTFOUND, "no abstract in page")
	}

	return &trialsum.Article{
		Title:     title(doc),
		Authors:   authors(doc),
		Published: published(doc),
		DOI:       doi(doc),
		Abstract:  abstract,
	}, nil
}

// citationAbstract reads the escaped HTML abstract some publishers put in
// meta[name=citation_abstract]: h3 headings followed by p bodies.
func citationAbstract(doc *goquery.Document) string {
	raw := strings.TrimSpace(metaContent(doc, "citation_abstract"))
	if raw == "" {
		return ""
	}
	inner, err := goquery.NewDocumentFromReader(strings.NewReader(html.UnescapeString(raw)))
	if err != nil {
		return ""
	}
	if lines := blockLines(inner.Selection); len(lines) > 0 {
		return strings.Join(lines, "\n")
	}
	return squash(inner.Text())
}

// containerAbstract reads the first abstract container in the page body,
// trying the containers of publisher before the generic ones.
func containerAbstract(doc *goquery.Document, publisher Publisher) string {
	selectors := slices.Concat(publisherContainers[publisher], abstractContainers)
	for _, sel := range selectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if lines := blockLines(el); len(lines) > 0 {
			return strings.Join(lines, "\n")
		}
		if text := squash(el.Text()); text != "" {
			return text
		}
	}
	return ""
}

// blockLines renders headings and paragraphs one per line. A paragraph
// opening with a bold run, as in "<p><strong>Results</strong> ...</p>",
// becomes "Results: ...".
func blockLines(sel *goquery.Selection) []string {
	var lines []string
	sel.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "p" {
			if lead := leadingLabel(s); lead != "" {
				text := squash(s.Text())
				rest := strings.TrimSpace(strings.TrimPrefix(text, lead))
				label := strings.TrimRight(lead, ":. ")
				lines = append(lines, label+": "+strings.TrimLeft(rest, ":. "))
				return
			}
		}
		if text := squash(s.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	return lines
}

// leadingLabel returns the text of a bold first child that starts the
// paragraph, or "".
func leadingLabel(p *goquery.Selection) string {
	first := p.Children().First()
	if first.Length() == 0 {
		return ""
	}
	switch goquery.NodeName(first) {
	case "strong", "b":
	default:
		return ""
	}
	lead := squash(first.Text())
	if lead == "" || !strings.HasPrefix(squash(p.Text()), lead) {
		return ""
	}
	return lead
}

// titleSelectors are tried in order for the article title.
var titleSelectors = []string{
	"h1.meta-article-title",
	"h1[property='name']",
	"h1.article-header__title",
	"h1.content-title",
}

var siteSuffixRe = regexp.MustCompile(`\s*[|–-]\s*JAMA.*$`)

// title returns the article title with any trailing site name removed.
func title(doc *goquery.Document) string {
	for _, sel := range titleSelectors {
		if t := squash(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}

	t := metaContent(doc, "citation_title")
	if t == "" {
		t = propertyContent(doc, "og:title")
	}
	if t == "" {
		t = doc.Find("title").First().Text()
	}
	t = squash(t)
	if site := squash(propertyContent(doc, "og:site_name")); site != "" {
		for _, sep := range []string{" | ", " - ", " – "} {
			t = strings.TrimSuffix(t, sep+site)
		}
	}
	return strings.TrimSpace(siteSuffixRe.ReplaceAllString(t, ""))
}

// authorSelectors are tried in order when there are no citation_author tags.
var authorSelectors = []string{
	"a.author-name",
	"span.author-name",
	".meta-article-author-list .author",
}

// authors returns up to trialsum.MaxAuthors names joined by commas, followed by
// "et al." when more authors exist.
func authors(doc *goquery.Document) string {
	var names []string
	doc.Find("meta[name='citation_author']").Each(func(_ int, s *goquery.Selection) {
		if v := squash(s.AttrOr("content", "")); v != "" {
			names = append(names, v)
		}
	})
	if len(names) == 0 {
		for _, sel := range authorSelectors {
			doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
				if v := squash(s.Text()); v != "" {
					names = append(names, v)
				}
			})
			if len(names) > 0 {
				break
			}
		}
	}
	return trialsum.FormatAuthors(names)
}

// published returns the publication date as "January 2006".
func published(doc *goquery.Document) string {
	for _, name := range []string{"citation_publication_date", "citation_date", "article:published_time", "dc.date"} {
		if v := metaContent(doc, name); v != "" {
			return FormatDate(v)
		}
	}
	if v := propertyContent(doc, "article:published_time"); v != "" {
		return FormatDate(v)
	}
	if t := doc.Find("time[datetime]").First(); t.Length() > 0 {
		return FormatDate(t.AttrOr("datetime", ""))
	}
	if v := squash(doc.Find(".meta-article-date").First().Text()); v != "" {
		return FormatDate(v)
	}
	return ""
}

// dateLayouts are the publication date formats recognized by FormatDate.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"2006-01",
	"January 2006",
}

// FormatDate renders a publication date as "January 2006". Unrecognized
// input is returned trimmed.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("January 2006")
		}
	}
	if len(s) > 7 {
		if t, err := time.Parse("2006-01", s[:7]); err == nil {
			return t.Format("January 2006")
		}
	}
	return s
}

var (
	doiPrefixRe = regexp.MustCompile(`(?i)^doi:\s*`)
	doiURLRe    = regexp.MustCompile(`(?i)^https?://(?:dx\.)?doi\.org/`)
)

// doi returns the article DOI without "doi:" or resolver URL prefixes.
func doi(doc *goquery.Document) string {
	if v := metaContent(doc, "citation_doi"); v != "" {
		return CleanDOI(v)
	}
	if v := metaContent(doc, "dc.identifier"); strings.Contains(strings.ToLower(v), "10.") {
		return CleanDOI(v)
	}
	if a := doc.Find("a[href*='doi.org']").First(); a.Length() > 0 {
		return CleanDOI(a.AttrOr("href", ""))
	}
	if v := squash(doc.Find(".doi").First().Text()); v != "" {
		return CleanDOI(v)
	}
	return ""
}

// CleanDOI strips a "doi:" prefix and a doi.org resolver URL.
func CleanDOI(s string) string {
	s = doiPrefixRe.ReplaceAllString(strings.TrimSpace(s), "")
	s = doiURLRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// metaContent returns the content of meta[name=name], matched without
// regard to case.
func metaContent(doc *goquery.Document, name string) string {
	var out string
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(s.AttrOr("name", ""), name) {
			out = strings.TrimSpace(s.AttrOr("content", ""))
			return out == ""
		}
		return true
	})
	return out
}

// propertyContent returns the content of meta[property=property].
func propertyContent(doc *goquery.Document, property string) string {
	return strings.TrimSpace(doc.Find("meta[property='" + property + "']").First().AttrOr("content", ""))
}

// squash collapses runs of whitespace into single spaces.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
