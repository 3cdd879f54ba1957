package negotiate

import (
	"slices"
	"strings"

	"github.com/munnerz/goautoneg"
)

// Wildcard is the Accept value assumed when the header is absent or unparsable.
const Wildcard = "*/*"

type mediaRange struct {
	typ     string
	subtype string
	q       float64
}

func (m mediaRange) matches(typ, subtype string) bool {
	return (m.typ == "*" || m.typ == typ) && (m.subtype == "*" || m.subtype == subtype)
}

// Negotiate returns the entry of types that best satisfies accept, or "" when
// none of them is acceptable.
//
// Ranges are ranked by quality, then by specificity (a concrete subtype beats
// type/*, which beats */*), then by their position in the header. Each
// candidate takes the rank of the best range it matches and the best ranked
// candidate wins; equal ranks go to the candidate listed first in types.
// Ranges with q=0 are discarded.
func Negotiate(accept string, types ...string) string {
	ranges := parse(accept)
	if len(ranges) == 0 {
		ranges = parse(Wildcard)
	}

	best, bestRank := "", len(ranges)
	for _, candidate := range types {
		typ, subtype, ok := strings.Cut(strings.ToLower(candidate), "/")
		if !ok {
			continue
		}
		rank := slices.IndexFunc(ranges, func(m mediaRange) bool {
			return m.matches(typ, subtype)
		})
		if rank != -1 && rank < bestRank {
			best, bestRank = candidate, rank
		}
	}
	return best
}

// parse splits the header into media ranges in header order and sorts them by
// preference. goautoneg sorts its own output with an unstable comparator, so
// every clause is parsed on its own to keep the header order for ties.
func parse(accept string) []mediaRange {
	var ranges []mediaRange
	for _, clause := range strings.Split(accept, ",") {
		for _, a := range goautoneg.ParseAccept(clause) {
			if a.Q <= 0 {
				continue
			}
			ranges = append(ranges, mediaRange{
				typ:     strings.ToLower(a.Type),
				subtype: strings.ToLower(a.SubType),
				q:       a.Q,
			})
		}
	}

	slices.SortStableFunc(ranges, func(a, b mediaRange) int {
		switch {
		case a.q != b.q:
			if a.q > b.q {
				return -1
			}
			return 1
		case (a.subtype == "*") != (b.subtype == "*"):
			if a.subtype == "*" {
				return 1
			}
			return -1
		case (a.typ == "*") != (b.typ == "*"):
			if a.typ == "*" {
				return 1
			}
			return -1
		}
		return 0
	})
	return ranges
}
