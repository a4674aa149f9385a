package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{in: "  Vitality\n", expected: "Vitality"},
		{in: "1,234  points", expected: "1,234 points"},
		{in: "Team\t\t  Spirit", expected: "Team Spirit"},
		{in: "zero\u200bwidth", expected: "zerowidth"},
		{in: "1,234\u00a0 points", expected: "1,234 points"},
		{in: "\u00a0Team\u00a0Spirit\u2009", expected: "Team Spirit"},
		{in: "", expected: ""},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, NormalizeText(test.in), test.in)
	}
}

func TestGetTextAndAttr(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(
		`<div class="name" data-id="9565"><span>Team</span> <b>Vitality</b></div>`,
	))
	require.NoError(t, err)

	var div *html.Node
	var find func(n *html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			div = n
			return
		}
		for c := n.FirstChild; c != nil && div == nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	require.NotNil(t, div)

	require.Equal(t, "Team Vitality", GetText(div))

	id, ok := GetAttr(div, "data-id")
	require.True(t, ok)
	require.Equal(t, "9565", id)

	_, ok = GetAttr(div, "href")
	require.False(t, ok)
}
