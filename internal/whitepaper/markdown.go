package whitepaper

import (
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// sectionsFromMarkdown parses the converted document and splits it at
// headings. The second return value is the full plain text, lowercased
// for keyword matching.
func sectionsFromMarkdown(markdownContent []byte) ([]Section, string) {
	mdParser := parser.NewWithExtensions(parser.CommonExtensions)
	doc := mdParser.Parse(markdownContent)

	var sections []Section
	var fullText strings.Builder

	currentHeading := ""
	currentLevel := 0
	var currentBody strings.Builder

	flush := func() {
		if currentHeading == "" && currentBody.Len() == 0 {
			return
		}
		sections = append(sections, Section{
			heading: currentHeading,
			level:   currentLevel,
			body:    strings.TrimSpace(currentBody.String()),
		})
	}

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		if heading, ok := node.(*ast.Heading); ok {
			flush()
			currentHeading = nodeText(heading)
			currentLevel = heading.Level
			currentBody.Reset()

			fullText.WriteString(currentHeading)
			fullText.WriteString("\n")
			return ast.SkipChildren
		}

		if leaf := node.AsLeaf(); leaf != nil && len(leaf.Literal) > 0 {
			currentBody.Write(leaf.Literal)
			currentBody.WriteString(" ")

			fullText.Write(leaf.Literal)
			fullText.WriteString(" ")
		}

		return ast.GoToNext
	})
	flush()

	return sections, strings.ToLower(fullText.String())
}

// nodeText concatenates the leaf literals under a node.
func nodeText(node ast.Node) string {
	var sb strings.Builder
	ast.WalkFunc(node, func(child ast.Node, entering bool) ast.WalkStatus {
		if entering {
			if leaf := child.AsLeaf(); leaf != nil {
				sb.Write(leaf.Literal)
			}
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(sb.String())
}
