package markdown

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// sentenceEnders terminate a sentence in either Latin or CJK punctuation.
var sentenceEnders = []rune{'.', '!', '?', '。', '！', '？'}

// Excerpt extracts readable text from an HTML fragment and trims it to at
// most limit runes, preferring to cut at a sentence boundary. It returns ""
// for markup with no text content.
func Excerpt(htmlSource string, limit int) string {
	doc, err := html.Parse(strings.NewReader(htmlSource))
	if err != nil {
		return ""
	}

	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
			builder.WriteByte(' ')
		}
		// Script and style bodies are not readable text.
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	text := strings.Join(strings.Fields(builder.String()), " ")
	if text == "" || utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)[:limit]
	// Prefer ending on a full sentence inside the window.
	for i := len(runes) - 1; i > limit/2; i-- {
		if isSentenceEnder(runes[i]) {
			return string(runes[:i+1])
		}
	}
	return strings.TrimRight(string(runes), " ") + "…"
}

func isSentenceEnder(r rune) bool {
	for _, e := range sentenceEnders {
		if r == e {
			return true
		}
	}
	return false
}
