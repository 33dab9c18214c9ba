package pipeline

import (
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/claimsdash/internal/claim"
)

// SearchDelay is how long typing must pause before a search applies.
const SearchDelay = 300 * time.Millisecond

// Search keeps claims whose number, holder, or policy number contains query,
// case-insensitively. A blank query returns claims itself.
func Search(claims []claim.FormattedClaim, query string) []claim.FormattedClaim {
	if strings.TrimSpace(query) == "" {
		return claims
	}
	q := strings.ToLower(query)
	out := make([]claim.FormattedClaim, 0, len(claims))
	for _, c := range claims {
		if strings.Contains(strings.ToLower(c.Number), q) ||
			strings.Contains(strings.ToLower(c.Holder), q) ||
			strings.Contains(strings.ToLower(c.PolicyNumber), q) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByStatus keeps claims whose status is in statuses. An empty set
// keeps everything.
func FilterByStatus(claims []claim.FormattedClaim, statuses []string) []claim.FormattedClaim {
	if len(statuses) == 0 {
		return claims
	}
	out := make([]claim.FormattedClaim, 0, len(claims))
	for _, c := range claims {
		if slices.Contains(statuses, c.Status) {
			out = append(out, c)
		}
	}
	return out
}

// AvailableStatuses returns the distinct statuses present, sorted.
func AvailableStatuses(claims []claim.FormattedClaim) []string {
	seen := make(map[string]struct{})
	for _, c := range claims {
		seen[c.Status] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// View is the user's current list criteria.
type View struct {
	Statuses  []string
	Sort      SortOption
	TableSort TableSort
	Query     string
}

// Effective returns the ordering in force: an active header sort wins over
// the dropdown option.
func (v View) Effective() SortOption {
	if opt, ok := v.TableSort.Option(); ok {
		return opt
	}
	if v.Sort == "" {
		return DefaultSort
	}
	return v.Sort
}

// HasActiveFilters reports whether a status filter or search is applied.
func (v View) HasActiveFilters() bool {
	return len(v.Statuses) > 0 || v.Query != ""
}

// Apply derives the displayed list: status filter, then sort, then search.
func Apply(claims []claim.FormattedClaim, v View) []claim.FormattedClaim {
	out := FilterByStatus(claims, v.Statuses)
	out = SortClaims(out, v.Effective())
	return Search(out, v.Query)
}

// DebouncedMsg carries a search value once typing has paused.
type DebouncedMsg struct {
	Seq   int
	Value string
}

// Debouncer delays search input until it has been stable for Delay.
type Debouncer struct {
	Delay time.Duration

	raw   string
	value string
	seq   int
}

// NewDebouncer returns a Debouncer using SearchDelay.
func NewDebouncer() Debouncer {
	return Debouncer{Delay: SearchDelay}
}

// Set records the raw input and schedules its application.
func (d *Debouncer) Set(raw string) tea.Cmd {
	d.raw = raw
	d.seq++
	seq := d.seq
	return tea.Tick(d.Delay, func(time.Time) tea.Msg {
		return DebouncedMsg{Seq: seq, Value: raw}
	})
}

// Apply accepts msg if it is the latest scheduled value. It reports
// whether the debounced value changed.
func (d *Debouncer) Apply(msg DebouncedMsg) bool {
	if msg.Seq != d.seq {
		return false
	}
	changed := d.value != msg.Value
	d.value = msg.Value
	return changed
}

// Reset clears both values immediately.
func (d *Debouncer) Reset() {
	d.seq++
	d.raw = ""
	d.value = ""
}

// Raw returns the latest input.
func (d Debouncer) Raw() string { return d.raw }

// Value returns the debounced input.
func (d Debouncer) Value() string { return d.value }

// Searching reports whether the debounced value lags the input.
func (d Debouncer) Searching() bool { return d.raw != d.value }
