package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/trialsum"
	"github.com/fwojciec/trialsum/extract"
)

// DefaultMinLength is the shortest content accepted as a real article page.
const DefaultMinLength = 500

// challengeBodyLimit bounds the body text length scanned for challenge
// phrases. Interstitial pages are short; full articles are not.
const challengeBodyLimit = 5000

// Ensure Validator implements trialsum.Validator at compile time.
var _ trialsum.Validator = (*Validator)(nil)

// Validator decides whether fetched content is a usable article page.
// Checks run in a fixed order: access denied, too short, then missing
// required section. Validate is pure and safe for concurrent use.
type Validator struct {
	minLength int
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithMinLength sets the minimum content length in bytes.
// Defaults to DefaultMinLength.
func WithMinLength(n int) ValidatorOption {
	return func(v *Validator) {
		v.minLength = n
	}
}

// NewValidator creates a new Validator.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{minLength: DefaultMinLength}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// challengeTitles are page title fragments of bot checks, CAPTCHAs and
// access walls.
var challengeTitles = []string{
	"just a moment",
	"attention required",
	"access denied",
	"are you a robot",
	"captcha",
	"security check",
	"403 forbidden",
	"verify you are human",
	"pardon our interruption",
}

// interstitialSelectors match elements that only appear on challenge pages.
var interstitialSelectors = []string{
	"#challenge-form",
	"#challenge-running",
	"#cf-challenge-running",
	".cf-browser-verification",
	"#px-captcha",
}

// widgetSelectors match CAPTCHA widgets. Articles embed them in comment and
// newsletter forms, so they count only on short pages.
var widgetSelectors = []string{
	".g-recaptcha",
	".h-captcha",
	"#captcha",
	"iframe[src*='captcha']",
	"[data-sitekey]",
}

// challengePhrases are body text fragments of challenge pages.
var challengePhrases = []string{
	"verify you are human",
	"please enable javascript and cookies",
	"checking your browser",
	"access denied",
	"unusual traffic",
	"complete the security check",
	"request unsuccessful",
	"you don't have permission to access",
}

// abstractSelectors match structural abstract containers in HTML and, as
// parsed by the HTML tokenizer, in PubMed and JATS XML.
var abstractSelectors = []string{
	"meta[name='citation_abstract']",
	"meta[name='dc.description']",
	"section.abstract",
	"div.abstract",
	"div[class*='abstract']",
	"#abstract",
	"[id^='abstract']",
	"abstracttext",
	"abstract",
}

// headingSelector matches elements whose text may name a section anchor.
const headingSelector = "h1, h2, h3, h4, h5, h6, strong, b, dt, th"

// Validate returns the first failed check, or an accepting verdict.
func (v *Validator) Validate(content string) trialsum.Verdict {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return trialsum.Reject(trialsum.ReasonMissingRequiredSection, "parse content: %v", err)
	}

	if verdict := v.checkAccess(doc); !verdict.Accepted() {
		return verdict
	}

	if len(content) < v.minLength {
		return trialsum.Reject(trialsum.ReasonTooShort, "%d bytes, need %d", len(content), v.minLength)
	}

	if extract.HasAnchor(content) {
		return trialsum.Verdict{}
	}
	if v.hasStructure(doc) {
		return trialsum.Verdict{}
	}
	return trialsum.Reject(trialsum.ReasonMissingRequiredSection, "no abstract or section anchor found")
}

// checkAccess looks for challenge signatures in the title, markup and text.
func (v *Validator) checkAccess(doc *goquery.Document) trialsum.Verdict {
	title := strings.ToLower(strings.TrimSpace(doc.Find("title").First().Text()))
	for _, t := range challengeTitles {
		if strings.Contains(title, t) {
			return trialsum.Reject(trialsum.ReasonAccessDenied, "challenge title %q", title)
		}
	}

	for _, sel := range interstitialSelectors {
		if v.hasSelector(doc, sel) {
			return trialsum.Reject(trialsum.ReasonAccessDenied, "challenge element %s", sel)
		}
	}

	text := strings.ToLower(strings.Join(strings.Fields(doc.Find("body").Text()), " "))
	if len(text) > challengeBodyLimit {
		return trialsum.Verdict{}
	}
	for _, sel := range widgetSelectors {
		if v.hasSelector(doc, sel) {
			return trialsum.Reject(trialsum.ReasonAccessDenied, "challenge element %s", sel)
		}
	}
	for _, p := range challengePhrases {
		if strings.Contains(text, p) {
			return trialsum.Reject(trialsum.ReasonAccessDenied, "challenge text %q", p)
		}
	}
	return trialsum.Verdict{}
}

// hasStructure reports whether the document carries an abstract container
// or a heading naming a section anchor.
func (v *Validator) hasStructure(doc *goquery.Document) bool {
	for _, sel := range abstractSelectors {
		if v.hasSelector(doc, sel) {
			return true
		}
	}

	found := false
	doc.Find(headingSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if extract.HasAnchor(strings.TrimSpace(s.Text())) {
			found = true
			return false
		}
		return true
	})
	return found
}

// hasSelector checks if the document contains at least one element matching the selector.
func (v *Validator) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
