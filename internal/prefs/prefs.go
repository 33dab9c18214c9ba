// Package prefs loads and saves the dashboard's table preferences.
package prefs

import (
	"encoding/json"
	"fmt"

	"github.com/theirongolddev/claimsdash/internal/pipeline"
	"github.com/theirongolddev/claimsdash/internal/store"
)

// Storage keys.
const (
	VisibilityKey = "claims-table-column-visibility"
	SortKey       = "claims-table-sort"
)

// Prefs are the persisted table preferences.
type Prefs struct {
	Visibility map[string]bool
	Sort       pipeline.TableSort
}

// Default returns every column visible and no header sort.
func Default() Prefs {
	vis := make(map[string]bool, len(pipeline.Columns))
	for _, c := range pipeline.Columns {
		vis[c.Key] = true
	}
	return Prefs{Visibility: vis}
}

// Visible reports whether the column with key is shown.
func (p Prefs) Visible(key string) bool {
	v, ok := p.Visibility[key]
	return !ok || v
}

// Toggle flips the visibility of the column with key.
func (p *Prefs) Toggle(key string) {
	if p.Visibility == nil {
		p.Visibility = Default().Visibility
	}
	p.Visibility[key] = !p.Visible(key)
}

// VisibleColumns returns the shown columns in display order.
func (p Prefs) VisibleColumns() []pipeline.Column {
	out := make([]pipeline.Column, 0, len(pipeline.Columns))
	for _, c := range pipeline.Columns {
		if p.Visible(c.Key) {
			out = append(out, c)
		}
	}
	return out
}

// Load reads preferences from kv. Missing or corrupt values fall back to
// the defaults; Load never fails.
func Load(kv store.KV) Prefs {
	p := Default()
	if kv == nil {
		return p
	}

	if raw, ok := kv.Get(VisibilityKey); ok {
		var saved map[string]bool
		if err := json.Unmarshal([]byte(raw), &saved); err == nil {
			for _, c := range pipeline.Columns {
				if v, ok := saved[c.Key]; ok {
					p.Visibility[c.Key] = v
				}
			}
		}
	}

	if raw, ok := kv.Get(SortKey); ok {
		var saved pipeline.TableSort
		if err := json.Unmarshal([]byte(raw), &saved); err == nil && validSort(saved) {
			p.Sort = saved
		}
	}
	return p
}

func validSort(s pipeline.TableSort) bool {
	if !s.Active() {
		return true
	}
	if s.Direction != pipeline.Asc && s.Direction != pipeline.Desc {
		return false
	}
	_, ok := pipeline.ColumnByKey(s.Column)
	return ok
}

// Save writes preferences to kv.
func Save(kv store.KV, p Prefs) error {
	vis, err := json.Marshal(p.Visibility)
	if err != nil {
		return fmt.Errorf("encoding column visibility: %w", err)
	}
	if err := kv.Set(VisibilityKey, string(vis)); err != nil {
		return fmt.Errorf("saving column visibility: %w", err)
	}

	sort := p.Sort
	if !sort.Active() {
		sort = pipeline.TableSort{}
	}
	enc, err := json.Marshal(sort)
	if err != nil {
		return fmt.Errorf("encoding table sort: %w", err)
	}
	if err := kv.Set(SortKey, string(enc)); err != nil {
		return fmt.Errorf("saving table sort: %w", err)
	}
	return nil
}
