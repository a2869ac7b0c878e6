package model

import "sort"

// MatchResult pairs a candidate catalog record with its score and the
// criteria that contributed. It lives only for the duration of a single
// resolution call.
type MatchResult struct {
	Wine  Wine
	Tags  []string
	Score int
}

// MatchResults is a slice of MatchResult that supports ranking.
type MatchResults []MatchResult

// Len implements sort.Interface.
func (m MatchResults) Len() int {
	return len(m)
}

// Less implements sort.Interface - higher scores come first. Ties keep
// their original retrieval order, so sorting must stay stable.
func (m MatchResults) Less(i, j int) bool {
	return m[i].Score > m[j].Score
}

// Swap implements sort.Interface.
func (m MatchResults) Swap(i, j int) {
	m[i], m[j] = m[j], m[i]
}

// Sort orders results by score descending, preserving retrieval order
// between equal scores.
func (m MatchResults) Sort() {
	sort.Stable(m)
}

// Best returns the highest-scoring result, or nil if empty.
func (m MatchResults) Best() *MatchResult {
	if len(m) == 0 {
		return nil
	}
	m.Sort()
	return &m[0]
}

// AboveThreshold returns all results scoring at least threshold,
// ordered best-first.
func (m MatchResults) AboveThreshold(threshold int) MatchResults {
	m.Sort()

	var result MatchResults
	for _, r := range m {
		if r.Score >= threshold {
			result = append(result, r)
		}
	}
	return result
}
