package tui

import (
	"bytes"
	"strings"

	"gemchat/internal/app"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/charmbracelet/lipgloss"
)

// CodeRenderer renders assistant responses: plain text stays plain, fenced
// code segments get syntax highlighting and a bordered block.
type CodeRenderer struct {
	formatter chroma.Formatter
	style     *chroma.Style
}

func NewCodeRenderer() *CodeRenderer {
	return &CodeRenderer{
		formatter: formatters.Get("terminal256"),
		style:     styles.Get("dracula"),
	}
}

// Render segments the content and renders each piece for the terminal.
func (r *CodeRenderer) Render(content string, width int) string {
	segments := app.SegmentText(content)

	blockWidth := width - 8
	if blockWidth < 20 {
		blockWidth = 20
	}

	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteString("\n")
		}
		switch seg.Kind {
		case app.SegmentCode:
			highlighted := r.highlight(seg.Content, seg.Language)
			b.WriteString(codeBlockStyle.Width(blockWidth).Render(highlighted))
		default:
			b.WriteString(seg.Content)
		}
	}
	return b.String()
}

// highlight runs chroma over a code segment. The fence's language tag
// picks the lexer; untagged blocks fall back to content analysis.
func (r *CodeRenderer) highlight(code, lang string) string {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

var codeBlockStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#F8F8F2")).
	Background(lipgloss.Color("#282A36")).
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#6272A4"))
