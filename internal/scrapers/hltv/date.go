package hltv

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

const rankingDatePhrase = "World ranking on "

// the header reads like "CS2 World ranking on October 21st 2024"
var rankingDate = Field[time.Time]{
	Selector:  ".regional-ranking-header",
	Transform: parseRankingHeader,
}

// ParseRankingDate reads the effective date stated in the page header.
func ParseRankingDate(doc *goquery.Selection) (time.Time, error) {
	return Extract(doc, rankingDate)
}

func parseRankingHeader(text string) (time.Time, error) {
	_, date, found := strings.Cut(text, rankingDatePhrase)
	if !found {
		return time.Time{}, fmt.Errorf("%w: missing %q", ErrPageStructure, strings.TrimSpace(rankingDatePhrase))
	}
	return ParseDate(date)
}

var ordinalRegex = regexp.MustCompile(`(\d)(?:st|nd|rd|th)\b`)

var dateLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"2 January 2006",
	time.DateOnly,
}

// ParseDate parses a human readable date such as "October 21st, 2024" into a
// calendar date at midnight UTC.
func ParseDate(text string) (time.Time, error) {
	text = strings.TrimSpace(ordinalRegex.ReplaceAllString(text, "$1"))
	if text == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, text)
		if err == nil {
			return civilDate(parsed), nil
		}
	}

	parsed, err := dateparse.ParseIn(text, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return civilDate(parsed), nil
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
