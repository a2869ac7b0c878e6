package match

import (
	"testing"

	"github.com/cellarist/decanter/internal/model"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestScore_NameTiers(t *testing.T) {
	tests := []struct {
		name       string
		unresolved string
		candidate  string
		wantScore  int
		wantTag    string
	}{
		{
			name:       "exact match ignores case",
			unresolved: "château margaux",
			candidate:  "Château Margaux",
			wantScore:  40,
			wantTag:    "name:exact",
		},
		{
			name:       "unresolved contained in candidate",
			unresolved: "Margaux",
			candidate:  "Château Margaux",
			wantScore:  30,
			wantTag:    "name:substring",
		},
		{
			name:       "candidate contained in unresolved",
			unresolved: "Grand Vin Château Margaux 2015",
			candidate:  "Château Margaux",
			wantScore:  30,
			wantTag:    "name:substring",
		},
		{
			name:       "shared word longer than three characters",
			unresolved: "Margaux Premier Grand Cru",
			candidate:  "Pavillon Rouge du Margaux",
			wantScore:  20,
			wantTag:    "name:shared_word",
		},
		{
			name:       "three-character shared word does not count",
			unresolved: "Vin Sec",
			candidate:  "Vin Doux",
			wantScore:  0,
		},
		{
			name:       "no overlap",
			unresolved: "Opus One",
			candidate:  "Sassicaia",
			wantScore:  0,
		},
		{
			name:      "empty unresolved name never matches",
			candidate: "Château Margaux",
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := model.UnresolvedWine{Name: tt.unresolved}
			c := model.Wine{Name: tt.candidate}

			score, tags := Score(u, c)
			assert.Equal(t, tt.wantScore, score)
			if tt.wantTag != "" {
				assert.Contains(t, tags, tt.wantTag)
			} else {
				assert.Empty(t, tags)
			}
		})
	}
}

func TestScore_ProducerTiers(t *testing.T) {
	tests := []struct {
		name       string
		unresolved string
		candidate  string
		wantScore  int
		wantTag    string
	}{
		{
			name:       "exact",
			unresolved: "Château Margaux",
			candidate:  "CHÂTEAU MARGAUX",
			wantScore:  25,
			wantTag:    "producer:exact",
		},
		{
			name:       "substring",
			unresolved: "Margaux",
			candidate:  "Château Margaux",
			wantScore:  20,
			wantTag:    "producer:substring",
		},
		{
			name:       "no overlap",
			unresolved: "Penfolds",
			candidate:  "Château Margaux",
			wantScore:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := model.UnresolvedWine{Producer: tt.unresolved}
			c := model.Wine{Name: "x", Producer: tt.candidate}

			score, tags := Score(u, c)
			assert.Equal(t, tt.wantScore, score)
			if tt.wantTag != "" {
				assert.Contains(t, tags, tt.wantTag)
			}
		})
	}
}

func TestScore_VintageTiers(t *testing.T) {
	tests := []struct {
		unresolved *int
		candidate  *int
		name       string
		wantScore  int
		wantTag    string
	}{
		{name: "exact", unresolved: intPtr(2015), candidate: intPtr(2015), wantScore: 15, wantTag: "vintage:exact"},
		{name: "one year later", unresolved: intPtr(2016), candidate: intPtr(2015), wantScore: 5, wantTag: "vintage:adjacent"},
		{name: "one year earlier", unresolved: intPtr(2014), candidate: intPtr(2015), wantScore: 5, wantTag: "vintage:adjacent"},
		{name: "two years off", unresolved: intPtr(2013), candidate: intPtr(2015), wantScore: 0},
		// Catalog entries often omit vintage; that costs nothing.
		{name: "candidate missing vintage", unresolved: intPtr(2015), wantScore: 0},
		{name: "unresolved missing vintage", candidate: intPtr(2015), wantScore: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := model.UnresolvedWine{Vintage: tt.unresolved}
			c := model.Wine{Name: "x", Vintage: tt.candidate}

			score, tags := Score(u, c)
			assert.Equal(t, tt.wantScore, score)
			if tt.wantTag != "" {
				assert.Contains(t, tags, tt.wantTag)
			} else {
				assert.Empty(t, tags)
			}
		})
	}
}

func TestScore_RegionTiers(t *testing.T) {
	tests := []struct {
		name      string
		region    string
		cRegion   string
		cSub      string
		wantScore int
		wantTag   string
	}{
		{
			name:      "region match",
			region:    "Bordeaux",
			cRegion:   "Bordeaux",
			wantScore: 10,
			wantTag:   "region:region",
		},
		{
			name:      "substring of candidate region",
			region:    "Médoc",
			cRegion:   "Haut-Médoc",
			wantScore: 10,
			wantTag:   "region:region",
		},
		{
			name:      "sub-region fallback",
			region:    "Pauillac",
			cRegion:   "Bordeaux",
			cSub:      "Pauillac",
			wantScore: 8,
			wantTag:   "region:sub_region",
		},
		{
			name:      "region tier wins over sub-region",
			region:    "Bordeaux",
			cRegion:   "Bordeaux",
			cSub:      "Bordeaux",
			wantScore: 10,
			wantTag:   "region:region",
		},
		{
			name:      "no match",
			region:    "Rioja",
			cRegion:   "Bordeaux",
			cSub:      "Margaux",
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := model.UnresolvedWine{Region: tt.region}
			c := model.Wine{Name: "x", Region: tt.cRegion, SubRegion: tt.cSub}

			score, tags := Score(u, c)
			assert.Equal(t, tt.wantScore, score)
			if tt.wantTag != "" {
				assert.Equal(t, []string{tt.wantTag}, tags)
			}
		})
	}
}

func TestScore_AppellationTiers(t *testing.T) {
	tests := []struct {
		name        string
		appellation string
		cAppell     string
		cDesig      string
		wantScore   int
		wantTag     string
	}{
		{
			name:        "appellation match",
			appellation: "Margaux",
			cAppell:     "Margaux AOC",
			wantScore:   5,
			wantTag:     "appellation:appellation",
		},
		{
			name:        "designation fallback",
			appellation: "Grand Cru",
			cAppell:     "Margaux",
			cDesig:      "Premier Grand Cru Classé",
			wantScore:   3,
			wantTag:     "appellation:designation",
		},
		{
			name:        "no match",
			appellation: "Chianti Classico",
			cAppell:     "Margaux",
			wantScore:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := model.UnresolvedWine{Appellation: tt.appellation}
			c := model.Wine{Name: "x", Appellation: tt.cAppell, Designation: tt.cDesig}

			score, tags := Score(u, c)
			assert.Equal(t, tt.wantScore, score)
			if tt.wantTag != "" {
				assert.Equal(t, []string{tt.wantTag}, tags)
			}
		})
	}
}

func TestScore_CountryTier(t *testing.T) {
	u := model.UnresolvedWine{Country: "france"}
	c := model.Wine{Name: "x", Country: "France"}

	score, tags := Score(u, c)
	assert.Equal(t, 5, score)
	assert.Equal(t, []string{"country:exact"}, tags)

	// Country is exact-only: substrings never count.
	u.Country = "Fran"
	score, _ = Score(u, c)
	assert.Zero(t, score)
}

func TestScore_SingleTierPerCriterion(t *testing.T) {
	// An exact name also satisfies the substring and shared-word
	// conditions, but only the highest tier may contribute.
	u := model.UnresolvedWine{Name: "Château Margaux"}
	c := model.Wine{Name: "Château Margaux"}

	score, tags := Score(u, c)
	assert.Equal(t, 40, score)
	assert.Equal(t, []string{"name:exact"}, tags)
}

func TestScore_ProducerMatchStrictlyIncreasesScore(t *testing.T) {
	c := model.Wine{Name: "Château Margaux", Producer: "Château Margaux"}

	nameOnly, _ := Score(model.UnresolvedWine{Name: "Château Margaux"}, c)
	withProducer, _ := Score(model.UnresolvedWine{
		Name:     "Château Margaux",
		Producer: "Château Margaux",
	}, c)

	assert.Equal(t, 40, nameOnly)
	assert.Equal(t, 65, withProducer)
	assert.Greater(t, withProducer, nameOnly)
}

func TestScore_CriteriaAreAdditive(t *testing.T) {
	// The worked example: name substring (30) + producer exact (25) +
	// region (10) + country (5) = 70.
	u := model.UnresolvedWine{
		Name:     "Margaux",
		Producer: "Château Margaux",
		Region:   "Bordeaux",
		Country:  "France",
	}
	c := model.Wine{
		Name:     "Château Margaux",
		Producer: "Château Margaux",
		Region:   "Bordeaux",
		Country:  "France",
		LWIN7:    "1023456",
	}

	score, tags := Score(u, c)
	assert.Equal(t, 70, score)
	assert.ElementsMatch(t, []string{
		"name:substring",
		"producer:exact",
		"region:region",
		"country:exact",
	}, tags)
}

func TestScore_NothingInCommon(t *testing.T) {
	u := model.UnresolvedWine{Name: "Opus One", Country: "USA"}
	c := model.Wine{Name: "Sassicaia", Country: "Italy"}

	score, tags := Score(u, c)
	assert.Zero(t, score)
	assert.Empty(t, tags)
}
