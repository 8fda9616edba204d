package api

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderMarkdown turns a model reply into HTML. Raw HTML in the reply is
// dropped and only safe link protocols are kept.
func renderMarkdown(md string) template.HTML {
	if md == "" {
		return ""
	}
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank | html.SkipHTML | html.Safelink | html.NoreferrerLinks
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})

	return template.HTML(markdown.Render(doc, renderer))
}
