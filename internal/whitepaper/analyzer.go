package whitepaper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/rohmanhakim/coin-checker/internal/fetcher"
	"github.com/rohmanhakim/coin-checker/internal/metadata"
	"github.com/rohmanhakim/coin-checker/pkg/failure"
	"golang.org/x/net/html"
)

/*
Pipeline
- Fetch the whitepaper page through the resilient fetcher
- Strip chrome and script noise from the DOM
- Convert the remaining tree to Markdown
- Walk the Markdown AST for sections, then score and extract metrics

Scores describe the DOCUMENT, not the asset. A thin landing page
scores low even for a sound project.
*/

type Analyzer struct {
	fetcher      fetcher.Fetcher
	metadataSink metadata.MetadataSink
}

func NewAnalyzer(whitepaperFetcher fetcher.Fetcher, metadataSink metadata.MetadataSink) Analyzer {
	return Analyzer{
		fetcher:      whitepaperFetcher,
		metadataSink: metadataSink,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, whitepaperURL string) (Analysis, failure.ClassifiedError) {
	parsed, err := url.Parse(whitepaperURL)
	if err != nil {
		return Analysis{}, &AnalysisError{
			Message: fmt.Sprintf("parsing whitepaper URL: %v", err),
			Cause:   ErrCauseFetchFailure,
		}
	}

	result, fetchErr := a.fetcher.Fetch(ctx, fetcher.NewFetchParam(*parsed, nil, nil))
	if fetchErr != nil {
		return Analysis{}, fetchErr
	}
	if result.Code() != http.StatusOK {
		return Analysis{}, &AnalysisError{
			Message: fmt.Sprintf("whitepaper endpoint returned status %d", result.Code()),
			Cause:   ErrCauseFetchFailure,
		}
	}

	markdown, convErr := htmlToMarkdown(result.Body())
	if convErr != nil {
		a.metadataSink.RecordError(
			time.Now(),
			"whitepaper",
			"Analyzer.Analyze",
			metadata.CauseParseFailure,
			convErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, whitepaperURL),
			},
		)
		return Analysis{}, convErr
	}

	sections, plainText := sectionsFromMarkdown(markdown)
	if len(plainText) == 0 {
		return Analysis{}, &AnalysisError{
			Message: "no textual content after conversion",
			Cause:   ErrCauseEmptyDocument,
		}
	}

	return Analysis{
		sourceURL:       whitepaperURL,
		sections:        sections,
		useCaseScore:    scoreKeywords(plainText, useCaseKeywords),
		technologyScore: scoreKeywords(plainText, technologyKeywords),
		totalSupply:     extractMetric(plainText, totalSupplyPatterns),
		blockTime:       extractMetric(plainText, blockTimePatterns),
		consensus:       extractMetric(plainText, consensusPatterns),
	}, nil
}

// htmlToMarkdown parses the page, drops noise elements and converts the
// remaining tree.
func htmlToMarkdown(rawHTML []byte) ([]byte, *AnalysisError) {
	root, err := html.Parse(bytes.NewReader(rawHTML))
	if err != nil {
		return nil, &AnalysisError{
			Message: fmt.Sprintf("parsing whitepaper HTML: %v", err),
			Cause:   ErrCauseConversionFailure,
		}
	}

	removeNoiseNodes(root)

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)

	markdown, err := conv.ConvertNode(root)
	if err != nil {
		return nil, &AnalysisError{
			Message: err.Error(),
			Cause:   ErrCauseConversionFailure,
		}
	}

	return markdown, nil
}

var noiseElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"aside":    true,
	"form":     true,
	"svg":      true,
}

// removeNoiseNodes drops chrome and executable elements in place.
// Children are collected first because removal mutates the sibling list.
func removeNoiseNodes(node *html.Node) {
	if node == nil {
		return
	}

	var children []*html.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		children = append(children, child)
	}

	for _, child := range children {
		if child.Type == html.ElementNode && noiseElements[child.Data] {
			node.RemoveChild(child)
			continue
		}
		removeNoiseNodes(child)
	}
}
