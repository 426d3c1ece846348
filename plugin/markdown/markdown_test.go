package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	html, err := ToHTML("# Reading Notes\n\nA *great* book.")
	require.NoError(t, err)
	require.Contains(t, html, "<h1>Reading Notes</h1>")
	require.Contains(t, html, "<em>great</em>")
}

func TestToHTMLGFMTable(t *testing.T) {
	html, err := ToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)
	require.Contains(t, html, "<table>")
}

func TestExcerptShortText(t *testing.T) {
	require.Equal(t, "A short note.", Excerpt("<p>A short note.</p>", 140))
}

func TestExcerptCollapsesWhitespaceAcrossTags(t *testing.T) {
	got := Excerpt("<p>First   line.</p>\n<p>Second\nline.</p>", 140)
	require.Equal(t, "First line. Second line.", got)
}

func TestExcerptCutsAtSentenceBoundary(t *testing.T) {
	first := "This sentence fits inside the window and ends cleanly."
	html := "<p>" + first + " This trailing sentence pushes the text well past the configured limit and should be dropped.</p>"
	got := Excerpt(html, 80)
	require.Equal(t, first, got)
}

func TestExcerptHardCutAddsEllipsis(t *testing.T) {
	html := "<p>" + strings.Repeat("word ", 60) + "</p>"
	got := Excerpt(html, 50)
	require.True(t, strings.HasSuffix(got, "…"))
	require.LessOrEqual(t, len([]rune(got)), 51)
}

func TestExcerptSkipsScript(t *testing.T) {
	got := Excerpt("<p>Visible.</p><script>var hidden = 1;</script>", 140)
	require.Equal(t, "Visible.", got)
}

func TestExcerptEmpty(t *testing.T) {
	require.Equal(t, "", Excerpt("<div><img src='x'></div>", 140))
}
