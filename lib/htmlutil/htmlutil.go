package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("watclub.lib.htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

type Anchor struct {
	Name string
	Href string
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

func GetAnchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	ctx, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}

		name := GetText(n)
		name = removeNonPrintable(name)
		name = strings.Trim(name, " \t\n")
		name = innerWhitespace.ReplaceAllString(name, " ")

		linkStr := link.String()
		anchors = append(anchors, Anchor{
			Name: name,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", linkStr),
		))
	}

	return anchors
}

// PageText extracts the visible text of a whole document, one line per text
// node, skipping script and style content. The output is what gets handed to
// the enrichment service, so it stays close to what a reader would see.
func PageText(doc *goquery.Document) string {
	var lines []string
	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Nodes[0]
		if node.Data == "script" || node.Data == "style" || node.Data == "noscript" {
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.TextNode {
				continue
			}
			text := strings.Trim(child.Data, " \t\n")
			if text == "" {
				continue
			}
			text = innerWhitespace.ReplaceAllString(text, " ")
			lines = append(lines, text)
		}
	})
	return strings.Join(lines, "\n")
}

type Image struct {
	Src   string
	Alt   string
	Title string
}

// GetImages collects img tags from the document, resolving relative src
// attributes against base. Images without a src are dropped.
func GetImages(ctx context.Context, doc *goquery.Document, base *url.URL) []Image {
	ctx, span := tracer.Start(ctx, "GetImages")
	defer span.End()

	var images []Image
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src := sel.AttrOr("src", "")
		if src == "" {
			return
		}

		link, err := url.Parse(src)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing img src")
			return
		}
		if base != nil {
			link = base.ResolveReference(link)
		}

		images = append(images, Image{
			Src:   link.String(),
			Alt:   sel.AttrOr("alt", ""),
			Title: sel.AttrOr("title", ""),
		})
		span.AddEvent("image", trace.WithAttributes(
			attribute.String("src", link.String()),
		))
	})
	return images
}
