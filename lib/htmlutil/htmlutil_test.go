package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const testPage = `
<html>
<head><style>.x { color: red }</style></head>
<body>
	<h1>Club Directory</h1>
	<script>var ignored = true;</script>
	<div>
		<a href="/clubs/chess">Chess   Club</a>
		<a href="/clubs/robotics">Robotics</a>
		<img src="/logos/chess.png" alt="chess logo">
		<img src="https://cdn.example.com/robotics.jpg" title="robotics">
		<img alt="no src">
	</div>
</body>
</html>`

func mustDoc(t *testing.T) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(testPage))
	require.NoError(t, err)
	return doc
}

func TestGetAnchors(t *testing.T) {
	doc := mustDoc(t)
	anchors := GetAnchors(context.Background(), doc.Find("a"))
	require.Len(t, anchors, 2)
	require.Equal(t, Anchor{Name: "Chess Club", Href: "/clubs/chess"}, anchors[0])
	require.Equal(t, Anchor{Name: "Robotics", Href: "/clubs/robotics"}, anchors[1])
}

func TestPageText(t *testing.T) {
	doc := mustDoc(t)
	text := PageText(doc)
	require.Contains(t, text, "Club Directory")
	require.Contains(t, text, "Chess Club")
	require.NotContains(t, text, "ignored")
	require.NotContains(t, text, "color: red")
}

func TestGetImages(t *testing.T) {
	doc := mustDoc(t)
	base, err := url.Parse("https://uwaterloo.ca/directory")
	require.NoError(t, err)

	images := GetImages(context.Background(), doc, base)
	require.Len(t, images, 2)
	require.Equal(t, "https://uwaterloo.ca/logos/chess.png", images[0].Src)
	require.Equal(t, "chess logo", images[0].Alt)
	require.Equal(t, "https://cdn.example.com/robotics.jpg", images[1].Src)
}
