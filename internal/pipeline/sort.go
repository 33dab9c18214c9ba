// Package pipeline derives the displayed claim list: status filtering,
// sorting, and debounced search.
package pipeline

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/theirongolddev/claimsdash/internal/claim"
)

// SortOption names an ordering of the claim list.
type SortOption string

// Legacy dropdown orderings.
const (
	SortCreatedNewest SortOption = "created-newest"
	SortCreatedOldest SortOption = "created-oldest"
	SortAmountHighest SortOption = "amount-highest"
	SortAmountLowest  SortOption = "amount-lowest"
	SortTotalHighest  SortOption = "total-highest"
	SortTotalLowest   SortOption = "total-lowest"
)

// DefaultSort is the ordering used when none is chosen.
const DefaultSort = SortCreatedNewest

// LegacySorts lists the dropdown orderings in cycle order.
var LegacySorts = []SortOption{
	SortCreatedNewest,
	SortCreatedOldest,
	SortAmountHighest,
	SortAmountLowest,
	SortTotalHighest,
	SortTotalLowest,
}

// Label returns a human readable name for the option.
func (o SortOption) Label() string {
	switch o {
	case SortCreatedNewest:
		return "Newest first"
	case SortCreatedOldest:
		return "Oldest first"
	case SortAmountHighest:
		return "Highest amount"
	case SortAmountLowest:
		return "Lowest amount"
	case SortTotalHighest:
		return "Highest total"
	case SortTotalLowest:
		return "Lowest total"
	}
	if field, dir, ok := splitColumnOption(o); ok {
		for _, c := range Columns {
			if c.SortField == field {
				if dir == Desc {
					return c.Title + " ↓"
				}
				return c.Title + " ↑"
			}
		}
	}
	return string(o)
}

// Valid reports whether o names a known ordering.
func (o SortOption) Valid() bool {
	if slices.Contains(LegacySorts, o) {
		return true
	}
	field, _, ok := splitColumnOption(o)
	if !ok {
		return false
	}
	return slices.ContainsFunc(Columns, func(c Column) bool { return c.SortField == field })
}

// NextLegacySort returns the dropdown option after o, wrapping around.
func NextLegacySort(o SortOption) SortOption {
	i := slices.Index(LegacySorts, o)
	return LegacySorts[(i+1)%len(LegacySorts)]
}

type comparator func(a, b claim.FormattedClaim) int

// SortClaims returns a stably sorted copy of claims. The input is never
// modified. Unknown options return a copy in input order.
func SortClaims(claims []claim.FormattedClaim, opt SortOption) []claim.FormattedClaim {
	sorted := slices.Clone(claims)
	if cmpFn := comparatorFor(opt); cmpFn != nil {
		slices.SortStableFunc(sorted, cmpFn)
	}
	return sorted
}

func comparatorFor(opt SortOption) comparator {
	switch opt {
	case SortCreatedNewest:
		return reverse(byCreated)
	case SortCreatedOldest:
		return byCreated
	case SortAmountHighest:
		return reverse(byAmount)
	case SortAmountLowest:
		return byAmount
	case SortTotalHighest:
		return reverse(byTotal)
	case SortTotalLowest:
		return byTotal
	}

	field, dir, ok := splitColumnOption(opt)
	if !ok {
		return nil
	}
	var base comparator
	switch field {
	case "number":
		base = byText(func(c claim.FormattedClaim) string { return c.Number })
	case "status":
		base = byText(func(c claim.FormattedClaim) string { return c.Status })
	case "holder":
		base = byText(func(c claim.FormattedClaim) string { return c.Holder })
	case "policyNumber":
		base = byText(func(c claim.FormattedClaim) string { return c.PolicyNumber })
	case "formattedClaimAmount":
		base = byAmount
	case "formattedProcessingFee":
		base = byFee
	case "formattedTotalAmount":
		base = byTotal
	case "formattedIncidentDate":
		base = byIncident
	case "formattedCreatedDate":
		base = byCreated
	default:
		return nil
	}
	if dir == Desc {
		return reverse(base)
	}
	return base
}

func splitColumnOption(opt SortOption) (field string, dir Direction, ok bool) {
	s := string(opt)
	switch {
	case strings.HasSuffix(s, "-asc"):
		return strings.TrimSuffix(s, "-asc"), Asc, true
	case strings.HasSuffix(s, "-desc"):
		return strings.TrimSuffix(s, "-desc"), Desc, true
	}
	return "", None, false
}

func reverse(f comparator) comparator {
	return func(a, b claim.FormattedClaim) int { return f(b, a) }
}

func byAmount(a, b claim.FormattedClaim) int {
	return cmp.Compare(a.Amount.Float(), b.Amount.Float())
}

func byFee(a, b claim.FormattedClaim) int {
	return cmp.Compare(a.ProcessingFee.Float(), b.ProcessingFee.Float())
}

func byTotal(a, b claim.FormattedClaim) int {
	return cmp.Compare(a.Total(), b.Total())
}

func byCreated(a, b claim.FormattedClaim) int {
	return compareTime(a.Created(), b.Created())
}

func byIncident(a, b claim.FormattedClaim) int {
	return compareTime(a.Incident(), b.Incident())
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}

// byText orders strings with an English collator. The collator keeps
// scratch buffers, so each comparator owns one.
func byText(get func(claim.FormattedClaim) string) comparator {
	col := collate.New(language.English)
	return func(a, b claim.FormattedClaim) int {
		return col.CompareString(get(a), get(b))
	}
}
