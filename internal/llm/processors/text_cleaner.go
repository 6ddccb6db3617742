package processors

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlTagPattern     = regexp.MustCompile(`(?i)<\s*(html|body|div|p|br|span|ul|ol|li|h[1-6]|table|section|article)\b[^>]*>`)
	inlineSpacePattern = regexp.MustCompile(`[ \t\f\v]+`)
	blankLinesPattern  = regexp.MustCompile(`\n{3,}`)
)

// TextCleaner normalises user-pasted text (resumes, job descriptions) before it is
// embedded in a prompt. Text copied from a web page often arrives as HTML.
type TextCleaner struct {
	// Tags removed together with their content
	removeTags []string
	// Block elements that end a line when flattened to text
	blockTags []string
	// Upper bound on returned characters, 0 = unlimited
	maxLength int
}

// NewTextCleaner creates a cleaner truncating output to maxLength characters (0 = unlimited)
func NewTextCleaner(maxLength int) *TextCleaner {
	return &TextCleaner{
		removeTags: []string{
			"script", "style", "noscript", "iframe", "object", "embed",
			"svg", "meta", "link", "head", "nav", "footer", "form", "button",
		},
		blockTags: []string{"p", "div", "li", "br", "tr", "h1", "h2", "h3", "h4", "h5", "h6", "section", "article"},
		maxLength: maxLength,
	}
}

// LooksLikeHTML reports whether text contains recognisable markup
func (tc *TextCleaner) LooksLikeHTML(text string) bool {
	return htmlTagPattern.MatchString(text)
}

// Clean returns plain text. HTML input is flattened with goquery; plain text only
// has its whitespace normalised.
func (tc *TextCleaner) Clean(text string) (string, error) {
	if tc.LooksLikeHTML(text) {
		flattened, err := tc.flattenHTML(text)
		if err != nil {
			return "", err
		}
		text = flattened
	}

	return tc.truncate(tc.normaliseWhitespace(text)), nil
}

func (tc *TextCleaner) flattenHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, tag := range tc.removeTags {
		doc.Find(tag).Remove()
	}

	// keep the document's line structure: every block element ends with a newline
	for _, tag := range tc.blockTags {
		doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
			s.AppendHtml("\n")
		})
	}

	return doc.Text(), nil
}

func (tc *TextCleaner) normaliseWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpacePattern.ReplaceAllString(line, " "))
	}

	text = blankLinesPattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}

func (tc *TextCleaner) truncate(text string) string {
	if tc.maxLength <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= tc.maxLength {
		return text
	}
	return string(runes[:tc.maxLength]) + "..."
}
