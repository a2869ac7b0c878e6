package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicateComposition(t *testing.T) {
	tests := []struct {
		name string
		pred Predicate
		want Predicate
	}{
		{
			name: "and of nothing is empty",
			pred: And(),
			want: Predicate{},
		},
		{
			name: "or drops empty sub-predicates",
			pred: Or(Predicate{}, Contains("name", "margaux"), Predicate{}),
			want: Contains("name", "margaux"),
		},
		{
			name: "single survivor is unwrapped",
			pred: And(Eq("lwin7", "1023456")),
			want: Eq("lwin7", "1023456"),
		},
		{
			name: "two survivors stay composed",
			pred: And(Eq("lwin7", "1023456"), Eq("vintage", 2015)),
			want: Predicate{
				Op:   OpAnd,
				Subs: []Predicate{Eq("lwin7", "1023456"), Eq("vintage", 2015)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pred)
		})
	}
}

func TestPredicateIsZero(t *testing.T) {
	assert.True(t, Predicate{}.IsZero())
	assert.True(t, Or().IsZero())
	assert.False(t, Eq("country", "France").IsZero())
	assert.False(t, Contains("region", "Bordeaux").IsZero())
}
