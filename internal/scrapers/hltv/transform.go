package hltv

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var nonDigitRegex = regexp.MustCompile(`\D`)

// ParsePoints keeps only the digits of `raw`. ex. "1,234 points" -> 1234
func ParsePoints(raw string) (int, error) {
	digits := nonDigitRegex.ReplaceAllString(raw, "")
	if digits == "" {
		return 0, fmt.Errorf("no digits")
	}
	return strconv.Atoi(digits)
}

// changePlaceholder is shown instead of a number when a team did not move.
const changePlaceholder = "-"

// ParseChange reads a signed rank change, the placeholder means no change.
func ParseChange(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == changePlaceholder {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

var siteOrigin, _ = url.Parse(SiteOrigin)

// AbsoluteUrl prefixes `href` with the site origin, absolute urls are kept
// unchanged.
func AbsoluteUrl(href string) (string, error) {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return href, nil
	}
	if ref.Path == "" {
		return "", fmt.Errorf("empty link")
	}
	// root relative links are prefixed as is so the path keeps its original escaping
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		return SiteOrigin + href, nil
	}
	return siteOrigin.ResolveReference(ref).String(), nil
}

// CountryCode takes the file name of a flag image without its extension.
// ex. "/img/static/flags/30x20/DK.gif" -> "DK"
func CountryCode(src string) (string, error) {
	segments := strings.Split(src, "/")
	name, _, _ := strings.Cut(segments[len(segments)-1], ".")
	if name == "" {
		return "", fmt.Errorf("no file name in %q", src)
	}
	return name, nil
}

// StripNickname returns a transform removing " '<nick>' " from a player's
// picture alt text, leaving the first and last name.
// ex. "Nicolai 'dev1ce' Reedtz" -> "Nicolai Reedtz"
func StripNickname(nick string) func(string) (string, error) {
	pattern := fmt.Sprintf(" '%s' ", nick)
	return func(alt string) (string, error) {
		return strings.Replace(alt, pattern, " ", 1), nil
	}
}
