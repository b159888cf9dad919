package view

import (
	"fmt"
	"sort"
	"time"

	"github.com/niprobin/curated-digging/pkg/checked"
	"github.com/niprobin/curated-digging/pkg/entity"
)

// Config tunes a Controller for one dashboard surface.
type Config struct {
	PageSize int              // defaults to 20
	Noun     string           // singular item label for status text, defaults to "track"
	Now      func() time.Time // defaults to time.Now, injectable for window tests
}

// Controller is the single source of truth for one surface: the entity
// set plus the active curator, filter, page and show-checked flag. Every
// transition is synchronous and the whole derived view is recomputed on
// demand; with a few hundred rows there is nothing worth diffing.
type Controller struct {
	cfg     Config
	checked *checked.Store

	entities      []entity.Entity
	counts        map[string]int
	curators      []string
	activeCurator string
	activeFilter  string
	currentPage   int
	showChecked   bool
}

// View is the fully derived state for rendering or printing.
type View struct {
	Curators      []string
	Counts        map[string]int
	ActiveCurator string
	ActiveFilter  string
	ShowChecked   bool
	Page          Page
	VisibleCount  int // entities surviving all filters
	HiddenCount   int // curator+window matches suppressed because checked
	TotalMatches  int // curator+window matches before the checked filter
	Status        string
}

func NewController(store *checked.Store, cfg Config) *Controller {
	if cfg.PageSize < 1 {
		cfg.PageSize = 20
	}
	if cfg.Noun == "" {
		cfg.Noun = "track"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Controller{
		cfg:          cfg,
		checked:      store,
		counts:       map[string]int{},
		activeFilter: FilterAll,
		currentPage:  1,
		showChecked:  store.LoadPreference(),
	}
}

// LoadEntities replaces the entity set wholesale: recounts curators,
// prunes the checked store against the new ids, resets the page, and
// keeps the active curator only if it still exists (falling back to the
// first curator alphabetically, or none).
func (c *Controller) LoadEntities(entities []entity.Entity) {
	c.entities = entities
	c.counts = entity.CountByCurator(entities)

	valid := make(map[string]bool, len(entities))
	for _, e := range entities {
		valid[e.ID] = true
	}
	c.checked.Prune(valid)

	c.curators = make([]string, 0, len(c.counts))
	for curator := range c.counts {
		c.curators = append(c.curators, curator)
	}
	sort.SliceStable(c.curators, func(i, j int) bool {
		return entity.CompareFolded(c.curators[i], c.curators[j]) < 0
	})

	if !c.hasCurator(c.activeCurator) {
		if len(c.curators) > 0 {
			c.activeCurator = c.curators[0]
		} else {
			c.activeCurator = ""
		}
	}
	c.currentPage = 1
}

func (c *Controller) hasCurator(name string) bool {
	for _, cur := range c.curators {
		if cur == name {
			return true
		}
	}
	return false
}

// SelectCurator activates a curator tab. Unknown names are ignored.
func (c *Controller) SelectCurator(name string) {
	if !c.hasCurator(name) || name == c.activeCurator {
		return
	}
	c.activeCurator = name
	c.currentPage = 1
}

// SelectFilter activates a time window. Unknown ids are ignored.
func (c *Controller) SelectFilter(id string) {
	if _, ok := filterByID(id); !ok || id == c.activeFilter {
		return
	}
	c.activeFilter = id
	c.currentPage = 1
}

// ToggleShowChecked flips the preference, persists it, and returns the
// new value.
func (c *Controller) ToggleShowChecked() bool {
	c.showChecked = !c.showChecked
	c.checked.SetPreference(c.showChecked)
	c.currentPage = 1
	return c.showChecked
}

// ChangePage moves by delta pages, clamped to the valid range for the
// current filtered sequence.
func (c *Controller) ChangePage(delta int) {
	filtered := c.filtered()
	page := Paginate(filtered, c.cfg.PageSize, c.currentPage+delta)
	c.currentPage = page.EffectivePage
}

// curatorMatches returns the active curator's entities inside the active
// window, before the checked-visibility filter.
func (c *Controller) curatorMatches() []entity.Entity {
	if c.activeCurator == "" {
		return nil
	}
	now := c.cfg.Now()
	out := make([]entity.Entity, 0, len(c.entities))
	for _, e := range c.entities {
		if e.Curator != c.activeCurator {
			continue
		}
		if !MatchesTimeWindow(e, c.activeFilter, now) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (c *Controller) filtered() []entity.Entity {
	matches := c.curatorMatches()
	out := matches[:0:0]
	for _, e := range matches {
		if VisibleGivenCheckedPreference(e, c.showChecked, c.checked) {
			out = append(out, e)
		}
	}
	return out
}

// View recomputes the derived view. The page is re-clamped here, so a
// filter change that shrank the sequence can never leave the controller
// pointing past the end.
func (c *Controller) View() View {
	v := View{
		Curators:      c.curators,
		Counts:        c.counts,
		ActiveCurator: c.activeCurator,
		ActiveFilter:  c.activeFilter,
		ShowChecked:   c.showChecked,
	}

	if c.activeCurator == "" {
		v.Page = Paginate(nil, c.cfg.PageSize, 1)
		v.Status = fmt.Sprintf("Select a curator to see %ss.", c.cfg.Noun)
		return v
	}

	matches := c.curatorMatches()
	filtered := make([]entity.Entity, 0, len(matches))
	hidden := 0
	for _, e := range matches {
		if VisibleGivenCheckedPreference(e, c.showChecked, c.checked) {
			filtered = append(filtered, e)
		}
		if c.checked.IsChecked(e.ID) {
			hidden++
		}
	}

	v.TotalMatches = len(matches)
	v.HiddenCount = hidden
	v.VisibleCount = len(filtered)

	page := Paginate(filtered, c.cfg.PageSize, c.currentPage)
	c.currentPage = page.EffectivePage
	v.Page = page

	if len(filtered) == 0 {
		if c.showChecked {
			v.Status = fmt.Sprintf("No %ss to show for %s with the current filter.", c.cfg.Noun, c.activeCurator)
		} else {
			v.Status = fmt.Sprintf("All %ss for %s are marked as checked.", c.cfg.Noun, c.activeCurator)
		}
		return v
	}

	label := c.cfg.Noun + "s"
	if !c.showChecked {
		label = "unchecked " + label
	}
	v.Status = fmt.Sprintf("Showing %d of %d %s for %s (page %d of %d).",
		len(page.Items), len(filtered), label, c.activeCurator, page.EffectivePage, page.TotalPages)
	if hidden > 0 {
		if c.showChecked {
			v.Status += fmt.Sprintf(" %d %s marked as checked.", hidden, pluralIs(hidden, c.cfg.Noun))
		} else {
			v.Status += fmt.Sprintf(" %d of %d %s hidden because they are checked.", hidden, len(matches), pluralIs(hidden, c.cfg.Noun))
		}
	}
	return v
}

func pluralIs(n int, noun string) string {
	if n == 1 {
		return noun + " is"
	}
	return noun + "s are"
}
