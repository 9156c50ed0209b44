// Package etree reads article abstracts from PubMed and JATS XML, as served
// by PubMed E-utilities and PubMed Central.
package etree

import (
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/trialsum"
)

// Ensure ArticleReader implements trialsum.ArticleReader at compile time.
var _ trialsum.ArticleReader = (*ArticleReader)(nil)

// ArticleReader reads PubMed (PubmedArticleSet) and JATS (article) XML.
type ArticleReader struct{}

// NewArticleReader creates a new ArticleReader.
func NewArticleReader() *ArticleReader {
	return &ArticleReader{}
}

// Read parses XML content. Returns ENOTFOUND when the content is not
// PubMed or JATS XML or carries no abstract.
func (r *ArticleReader) Read(content string) (*trialsum.Article, error) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "<?xml") && !strings.HasPrefix(trimmed, "<PubmedArticle") && !strings.HasPrefix(trimmed, "<article") {
		return nil, trialsum.Errorf(trialsum.ENOTFOUND, "not an XML article")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(trimmed); err != nil {
		return nil, trialsum.Errorf(trialsum.ENOTFOUND, "not an XML article: %v", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, trialsum.Errorf(trialsum.ENOTFOUND, "empty XML document")
	}

	var article *trialsum.Article
	switch root.Tag {
	case "PubmedArticleSet", "PubmedArticle":
		article = readPubmed(root)
	case "article":
		article = readJATS(root)
	default:
		return nil, trialsum.Errorf(trialsum.ENOTFOUND, "unsupported XML root %q", root.Tag)
	}
	if article.Abstract == "" {
		return nil, trialsum.Errorf(trialsum.ENOTFOUND, "no abstract in XML article")
	}
	return article, nil
}

// readPubmed reads the first article of a PubMed efetch response.
func readPubmed(root *etree.Element) *trialsum.Article {
	a := &trialsum.Article{}

	if el := root.FindElement("//ArticleTitle"); el != nil {
		a.Title = strings.TrimSuffix(innerText(el), ".")
	}

	var lines []string
	for _, el := range root.FindElements("//Abstract/AbstractText") {
		text := innerText(el)
		if text == "" {
			continue
		}
		if label := el.SelectAttrValue("Label", ""); label != "" {
			text = label + ": " + text
		}
		lines = append(lines, text)
	}
	a.Abstract = strings.Join(lines, "\n")

	var names []string
	for _, el := range root.FindElements("//AuthorList/Author") {
		last := innerText(el.SelectElement("LastName"))
		initials := innerText(el.SelectElement("Initials"))
		if last == "" {
			last = innerText(el.SelectElement("CollectiveName"))
		}
		if name := strings.TrimSpace(last + " " + initials); name != "" {
			names = append(names, name)
		}
	}
	a.Authors = trialsum.FormatAuthors(names)

	if el := root.FindElement("//Journal/JournalIssue/PubDate"); el != nil {
		a.Published = formatDate(
			innerText(el.SelectElement("Year")),
			innerText(el.SelectElement("Month")),
		)
		if a.Published == "" {
			a.Published = innerText(el.SelectElement("MedlineDate"))
		}
	}

	if el := root.FindElement("//ArticleIdList/ArticleId[@IdType='doi']"); el != nil {
		a.DOI = innerText(el)
	} else if el := root.FindElement("//ELocationID[@EIdType='doi']"); el != nil {
		a.DOI = innerText(el)
	}
	return a
}

// readJATS reads a JATS article's front matter.
func readJATS(root *etree.Element) *trialsum.Article {
	a := &trialsum.Article{}

	if el := root.FindElement("//article-meta/title-group/article-title"); el != nil {
		a.Title = innerText(el)
	}

	// Prefer the main abstract over graphical or teaser abstracts.
	var abstract *etree.Element
	for _, el := range root.FindElements("//article-meta/abstract") {
		if el.SelectAttrValue("abstract-type", "") == "" {
			abstract = el
			break
		}
		if abstract == nil {
			abstract = el
		}
	}
	if abstract != nil {
		a.Abstract = jatsAbstract(abstract)
	}

	var names []string
	for _, el := range root.FindElements("//article-meta/contrib-group/contrib[@contrib-type='author']") {
		name := el.SelectElement("name")
		if name == nil {
			continue
		}
		surname := innerText(name.SelectElement("surname"))
		given := initials(innerText(name.SelectElement("given-names")))
		if n := strings.TrimSpace(surname + " " + given); n != "" {
			names = append(names, n)
		}
	}
	a.Authors = trialsum.FormatAuthors(names)

	for _, el := range root.FindElements("//article-meta/pub-date") {
		if p := formatDate(innerText(el.SelectElement("year")), innerText(el.SelectElement("month"))); p != "" {
			a.Published = p
			break
		}
	}

	if el := root.FindElement("//article-meta/article-id[@pub-id-type='doi']"); el != nil {
		a.DOI = innerText(el)
	}
	return a
}

// jatsAbstract renders sec/title/p structure as "Title: text" lines. An
// abstract without sections yields its paragraphs one per line.
func jatsAbstract(abstract *etree.Element) string {
	var lines []string
	secs := abstract.SelectElements("sec")
	if len(secs) == 0 {
		for _, p := range abstract.SelectElements("p") {
			if text := innerText(p); text != "" {
				lines = append(lines, text)
			}
		}
		return strings.Join(lines, "\n")
	}
	for _, sec := range secs {
		var paras []string
		for _, p := range sec.SelectElements("p") {
			if text := innerText(p); text != "" {
				paras = append(paras, text)
			}
		}
		body := strings.Join(paras, " ")
		title := strings.TrimRight(innerText(sec.SelectElement("title")), ":. ")
		switch {
		case title != "" && body != "":
			lines = append(lines, title+": "+body)
		case body != "":
			lines = append(lines, body)
		}
	}
	return strings.Join(lines, "\n")
}

// innerText returns the whitespace-collapsed text of el and its
// descendants. A nil element yields "".
func innerText(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var b strings.Builder
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return strings.Join(strings.Fields(b.String()), " ")
}

// initials turns given names such as "Kim L." into "KL".
func initials(given string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(given, func(r rune) bool { return r == ' ' || r == '-' || r == '.' }) {
		b.WriteString(strings.ToUpper(string([]rune(part)[:1])))
	}
	return b.String()
}

// formatDate renders a year and an optional month (name, abbreviation or
// number) as "January 2006", or the bare year when the month is unknown.
func formatDate(year, month string) string {
	if year == "" {
		return ""
	}
	for _, layout := range []string{"2006 Jan", "2006 January", "2006 1", "2006 01"} {
		if t, err := time.Parse(layout, year+" "+month); err == nil {
			return t.Format("January 2006")
		}
	}
	return year
}
