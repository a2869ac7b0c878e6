package match

import (
	"strings"
	"unicode/utf8"

	"github.com/cellarist/decanter/internal/model"
)

// Per-criterion points. Each criterion contributes its single highest
// applicable tier; criteria never interact. The values are fixed, not
// tunables.
const (
	scoreNameExact      = 40
	scoreNameSubstring  = 30
	scoreNameSharedWord = 20

	scoreProducerExact     = 25
	scoreProducerSubstring = 20

	scoreVintageExact    = 15
	scoreVintageAdjacent = 5

	scoreRegionRegion    = 10
	scoreRegionSubRegion = 8

	scoreAppellationAppellation = 5
	scoreAppellationDesignation = 3

	scoreCountryExact = 5
)

// sharedWordMinLen is the exclusive length bound for the shared-word
// name tier: only words longer than this count.
const sharedWordMinLen = 3

// Score rates how well a candidate catalog record matches an unresolved
// record. The returned tags name each criterion tier that contributed,
// for explanation in CLI output and logs. A score of zero means no
// criterion applied at all.
func Score(u model.UnresolvedWine, c model.Wine) (int, []string) {
	total := 0
	tags := make([]string, 0, 6)

	add := func(points int, tag string) {
		if points > 0 {
			total += points
			tags = append(tags, tag)
		}
	}

	add(scoreName(u.Name, c.Name))
	add(scoreProducer(u.Producer, c.Producer))
	add(scoreVintage(u.Vintage, c.Vintage))
	add(scoreRegion(u.Region, c.Region, c.SubRegion))
	add(scoreAppellation(u.Appellation, c.Appellation, c.Designation))
	add(scoreCountry(u.Country, c.Country))

	return total, tags
}

func scoreName(unresolved, candidate string) (int, string) {
	a := strings.ToLower(strings.TrimSpace(unresolved))
	b := strings.ToLower(strings.TrimSpace(candidate))
	if a == "" || b == "" {
		return 0, ""
	}
	if a == b {
		return scoreNameExact, "name:exact"
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return scoreNameSubstring, "name:substring"
	}
	if sharesLongWord(a, b) {
		return scoreNameSharedWord, "name:shared_word"
	}
	return 0, ""
}

func scoreProducer(unresolved, candidate string) (int, string) {
	a := strings.ToLower(strings.TrimSpace(unresolved))
	b := strings.ToLower(strings.TrimSpace(candidate))
	if a == "" || b == "" {
		return 0, ""
	}
	if a == b {
		return scoreProducerExact, "producer:exact"
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return scoreProducerSubstring, "producer:substring"
	}
	return 0, ""
}

// scoreVintage only applies when both sides carry a vintage. A
// candidate without one costs nothing: catalog entries often omit it.
func scoreVintage(unresolved, candidate *int) (int, string) {
	if unresolved == nil || candidate == nil {
		return 0, ""
	}
	switch diff := *unresolved - *candidate; {
	case diff == 0:
		return scoreVintageExact, "vintage:exact"
	case diff == 1 || diff == -1:
		return scoreVintageAdjacent, "vintage:adjacent"
	default:
		return 0, ""
	}
}

func scoreRegion(unresolved, region, subRegion string) (int, string) {
	a := strings.ToLower(strings.TrimSpace(unresolved))
	if a == "" {
		return 0, ""
	}
	if r := strings.ToLower(region); r != "" && strings.Contains(r, a) {
		return scoreRegionRegion, "region:region"
	}
	if sr := strings.ToLower(subRegion); sr != "" && strings.Contains(sr, a) {
		return scoreRegionSubRegion, "region:sub_region"
	}
	return 0, ""
}

func scoreAppellation(unresolved, appellation, designation string) (int, string) {
	a := strings.ToLower(strings.TrimSpace(unresolved))
	if a == "" {
		return 0, ""
	}
	if ap := strings.ToLower(appellation); ap != "" && strings.Contains(ap, a) {
		return scoreAppellationAppellation, "appellation:appellation"
	}
	if d := strings.ToLower(designation); d != "" && strings.Contains(d, a) {
		return scoreAppellationDesignation, "appellation:designation"
	}
	return 0, ""
}

func scoreCountry(unresolved, candidate string) (int, string) {
	a := strings.ToLower(strings.TrimSpace(unresolved))
	b := strings.ToLower(strings.TrimSpace(candidate))
	if a == "" || b == "" {
		return 0, ""
	}
	if a == b {
		return scoreCountryExact, "country:exact"
	}
	return 0, ""
}

// sharesLongWord reports whether the two lowercased names have any word
// longer than sharedWordMinLen characters in common.
func sharesLongWord(a, b string) bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(a) {
		if utf8.RuneCountInString(w) > sharedWordMinLen {
			words[w] = true
		}
	}
	if len(words) == 0 {
		return false
	}
	for _, w := range strings.Fields(b) {
		if words[w] {
			return true
		}
	}
	return false
}
