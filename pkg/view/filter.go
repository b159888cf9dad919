// Package view derives what the dashboard shows: time-window and
// checked-visibility filtering, fixed-size pagination, and a controller
// holding the single source of truth for the active curator, filter and
// page.
package view

import (
	"time"

	"github.com/niprobin/curated-digging/pkg/entity"
)

// Filter is a named time window. Days == 0 means no window.
type Filter struct {
	ID    string
	Label string
	Days  int
}

const (
	FilterAll    = "all"
	FilterLast7  = "last7"
	FilterLast14 = "last14"
	FilterLast30 = "last30"
)

// Filters lists the selectable windows in display order.
var Filters = []Filter{
	{ID: FilterAll, Label: "See all", Days: 0},
	{ID: FilterLast7, Label: "Last 7 days", Days: 7},
	{ID: FilterLast14, Label: "Last 14 days", Days: 14},
	{ID: FilterLast30, Label: "Last 30 days", Days: 30},
}

func filterByID(id string) (Filter, bool) {
	for _, f := range Filters {
		if f.ID == id {
			return f, true
		}
	}
	return Filter{}, false
}

// MatchesTimeWindow reports whether e falls inside the named window,
// anchored to local midnight of now. Unknown filter ids and the "all"
// filter match everything; undated entities fail every day window.
func MatchesTimeWindow(e entity.Entity, filterID string, now time.Time) bool {
	f, ok := filterByID(filterID)
	if !ok || f.Days == 0 {
		return true
	}
	if !e.Dated {
		return false
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	threshold := midnight.UnixMilli() - int64(f.Days)*24*60*60*1000
	return e.Instant >= threshold
}

// CheckedSet is the membership test the visibility predicate needs; the
// checked.Store satisfies it.
type CheckedSet interface {
	IsChecked(id string) bool
}

// VisibleGivenCheckedPreference is true for every entity when showChecked
// is set, otherwise only for entities not in the checked set.
func VisibleGivenCheckedPreference(e entity.Entity, showChecked bool, checked CheckedSet) bool {
	if showChecked {
		return true
	}
	return !checked.IsChecked(e.ID)
}
