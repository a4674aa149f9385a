package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// Match is the result of ClosestMatch.
type Match struct {
	Index      int
	Value      string
	Similarity float64
}

// ClosestMatch finds the candidate most similar to `name`. A candidate equal to
// `name` after normalization always wins, otherwise the candidate with the
// highest Jaro-Winkler similarity wins if it reaches `minSimilarity`.
func ClosestMatch(name string, candidates []string, minSimilarity float64) (Match, bool) {
	target := NormalizeName(name)
	if target == "" {
		return Match{}, false
	}

	for i, c := range candidates {
		if NormalizeName(c) == target {
			return Match{Index: i, Value: c, Similarity: 1}, true
		}
	}

	best := Match{Index: -1}
	for i, c := range candidates {
		similarity := matchr.JaroWinkler(target, NormalizeName(c), false)
		if similarity > best.Similarity {
			best = Match{Index: i, Value: c, Similarity: similarity}
		}
	}
	if best.Index < 0 || best.Similarity < minSimilarity {
		return Match{}, false
	}
	return best, true
}
