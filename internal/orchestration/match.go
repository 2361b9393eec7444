package orchestration

import (
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/llmrec/recjudge/internal/judgment"
)

// movieField is the record field judges use to name the movie a record is about.
const movieField = "Movie"

var boldTitle = regexp.MustCompile(`\*\*(.+?)\*\*`)

// NormalizeTitle lowercases and trims a title, then drops every rune that is
// not a letter, digit, underscore or space. "Matrix, The (1999)" becomes
// "matrix the 1999".
func NormalizeTitle(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, title)
}

// ExtractTitles returns the **bold** titles of a recommendation text, in order.
func ExtractTitles(recommendation string) []string {
	var titles []string
	for _, m := range boldTitle.FindAllStringSubmatch(recommendation, -1) {
		titles = append(titles, strings.TrimSpace(m[1]))
	}
	return titles
}

// MatchMovie returns the part of a judge payload that is about movie. A record
// matches when its Movie field, or one of its keys holding a nested record,
// normalizes to the same title. The first match wins.
func MatchMovie(p judgment.Payload, movie string) (judgment.Payload, bool) {
	want := NormalizeTitle(movie)
	if want == "" {
		return judgment.Empty(), false
	}

	for _, rec := range p.Records() {
		if name, ok := rec[movieField].(string); ok && NormalizeTitle(name) == want {
			return judgment.Mapping(rec), true
		}
		for _, k := range slices.Sorted(maps.Keys(rec)) {
			nested, ok := rec[k].(map[string]any)
			if ok && NormalizeTitle(k) == want {
				return judgment.Mapping(nested), true
			}
		}
	}
	return judgment.Empty(), false
}

// recommends reports whether movie is among titles. An empty titles list
// recommends everything.
func recommends(titles []string, movie string) bool {
	if len(titles) == 0 {
		return true
	}
	want := NormalizeTitle(movie)
	for _, t := range titles {
		if NormalizeTitle(t) == want {
			return true
		}
	}
	return false
}
