package hltv

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func loadHtml(t *testing.T, contents string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents))
	require.NoError(t, err)
	return doc
}

const extractHtml = `
<div class="entry">
	<span class="name">
		Team   Spirit
	</span>
	<span class="points">(512 points)</span>
	<a class="link" href="/team/7020/spirit">profile</a>
	<a class="link" href="/team/0/ignored">second</a>
	<img class="logo">
</div>`

func TestExtractDefaults(t *testing.T) {
	doc := loadHtml(t, extractHtml)

	name, err := Extract(doc.Selection, Field[string]{Selector: ".entry .name"})
	require.NoError(t, err)
	require.Equal(t, "Team Spirit", name)

	points, err := Extract(doc.Selection, Field[int]{Selector: ".points", Transform: ParsePoints})
	require.NoError(t, err)
	require.Equal(t, 512, points)
}

func TestExtractFirstMatch(t *testing.T) {
	doc := loadHtml(t, extractHtml)

	href, err := Extract(doc.Selection, Field[string]{
		Selector:  "a.link",
		Accessor:  Attr("href"),
		Transform: AbsoluteUrl,
	})
	require.NoError(t, err)
	require.Equal(t, "https://www.hltv.org/team/7020/spirit", href)
}

func TestExtractMissingElement(t *testing.T) {
	doc := loadHtml(t, extractHtml)

	_, err := Extract(doc.Selection, Field[string]{Selector: ".change"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrPageStructure))

	var structureErr *StructureError
	require.True(t, errors.As(err, &structureErr))
	require.Equal(t, ".change", structureErr.Selector)
	require.Empty(t, structureErr.Attr)
	require.Contains(t, err.Error(), `".change"`)
}

func TestExtractMissingAttribute(t *testing.T) {
	doc := loadHtml(t, extractHtml)

	_, err := Extract(doc.Selection, Field[string]{Selector: "img.logo", Accessor: Attr("src")})

	var structureErr *StructureError
	require.True(t, errors.As(err, &structureErr))
	require.Equal(t, "img.logo", structureErr.Selector)
	require.Equal(t, "src", structureErr.Attr)
}

func TestExtractTransformError(t *testing.T) {
	doc := loadHtml(t, extractHtml)

	_, err := Extract(doc.Selection, Field[int]{Selector: ".name", Transform: ParseChange})
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrPageStructure))

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	require.Equal(t, ".name", fieldErr.Selector)
	require.Equal(t, "Team Spirit", fieldErr.Value)
}

func TestExtractWithoutTransform(t *testing.T) {
	doc := loadHtml(t, extractHtml)

	require.Panics(t, func() {
		Extract(doc.Selection, Field[int]{Selector: ".points"})
	})
}

func TestExtractNoBreakSpace(t *testing.T) {
	doc := loadHtml(t, `<div class="ranking-header"><span class="name">&nbsp;Team&nbsp; Spirit&nbsp;</span></div>`)

	name, err := Extract(doc.Selection, teamName)
	require.NoError(t, err)
	require.Equal(t, "Team Spirit", name)
}
