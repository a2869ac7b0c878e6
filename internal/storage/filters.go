package storage

import (
	"fmt"
	"strings"

	"github.com/cellarist/decanter/internal/service"
	"github.com/huandu/go-sqlbuilder"
)

// filterableFields lists the catalog columns a predicate may reference.
// Owner is deliberately absent: canonical scoping is the store's job.
var filterableFields = map[string]bool{
	"id":             true,
	"lwin7":          true,
	"lwin11":         true,
	"lwin18":         true,
	"name":           true,
	"producer":       true,
	"producer_title": true,
	"vintage":        true,
	"country":        true,
	"region":         true,
	"sub_region":     true,
	"appellation":    true,
	"designation":    true,
	"classification": true,
	"category":       true,
	"data_source":    true,
}

// compileFilter translates a structured predicate into a SQL boolean
// expression, registering arguments on the builder.
func compileFilter(sb *sqlbuilder.SelectBuilder, p service.Predicate) (string, error) {
	switch p.Op {
	case service.OpEq:
		if !filterableFields[p.Field] {
			return "", fmt.Errorf("%w: %s", ErrUnknownField, p.Field)
		}
		return sb.Equal(p.Field, p.Value), nil

	case service.OpContains:
		if !filterableFields[p.Field] {
			return "", fmt.Errorf("%w: %s", ErrUnknownField, p.Field)
		}
		substr, ok := p.Value.(string)
		if !ok {
			return "", fmt.Errorf("contains predicate on %s requires a string value", p.Field)
		}
		if substr == "" {
			return "", fmt.Errorf("%w: contains value for %s", ErrEmptyString, p.Field)
		}
		pattern := "%" + escapeLike(strings.ToLower(substr)) + "%"
		return fmt.Sprintf("LOWER(%s) LIKE %s ESCAPE '\\'", p.Field, sb.Var(pattern)), nil

	case service.OpAnd, service.OpOr:
		if len(p.Subs) == 0 {
			return "", ErrEmptyPredicate
		}
		exprs := make([]string, 0, len(p.Subs))
		for _, sub := range p.Subs {
			expr, err := compileFilter(sb, sub)
			if err != nil {
				return "", err
			}
			exprs = append(exprs, expr)
		}
		if p.Op == service.OpAnd {
			return sb.And(exprs...), nil
		}
		return sb.Or(exprs...), nil

	case "":
		return "", ErrEmptyPredicate

	default:
		return "", fmt.Errorf("unsupported predicate op: %q", p.Op)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters in user-supplied substrings.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
