// Package checked tracks which entities the user has marked as checked,
// plus the show-checked preference. Both survive reloads through a
// kv.Store; storage failures are logged and treated as empty defaults.
package checked

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/niprobin/curated-digging/internal/utils"
	"github.com/niprobin/curated-digging/pkg/kv"
)

const (
	checkedKey     = "checked-tracks"
	showCheckedKey = "show-checked"
)

// Store holds the set of checked entity ids. It references entities by id
// only and never owns them; Prune drops ids that left the dataset.
type Store struct {
	backing kv.Store
	ids     map[string]bool
}

// New loads the persisted checked set. A missing or corrupt value starts
// the store empty.
func New(backing kv.Store) *Store {
	s := &Store{backing: backing, ids: make(map[string]bool)}

	raw, ok, err := backing.Get(checkedKey)
	if err != nil {
		utils.Log.Warnf("checked: unable to read persisted set: %v", err)
		return s
	}
	if !ok || raw == "" {
		return s
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		utils.Log.Warnf("checked: persisted set is not a JSON array, starting empty: %v", err)
		return s
	}
	for _, id := range list {
		if id = canonical(id); id != "" {
			s.ids[id] = true
		}
	}
	return s
}

func canonical(id string) string {
	return strings.TrimSpace(id)
}

func (s *Store) IsChecked(id string) bool {
	return s.ids[canonical(id)]
}

// SetChecked flips an id's membership. Setting the current value is a
// no-op and does not persist; a real transition persists immediately.
func (s *Store) SetChecked(id string, checked bool) (changed bool) {
	key := canonical(id)
	if key == "" {
		return false
	}
	if s.ids[key] == checked {
		return false
	}
	if checked {
		s.ids[key] = true
	} else {
		delete(s.ids, key)
	}
	s.persist()
	return true
}

// Prune removes ids absent from valid and persists only when something
// was actually removed. Call it after every full entity reload.
func (s *Store) Prune(valid map[string]bool) (changed bool) {
	for id := range s.ids {
		if !valid[id] {
			delete(s.ids, id)
			changed = true
		}
	}
	if changed {
		s.persist()
	}
	return changed
}

// Len reports how many ids are currently checked.
func (s *Store) Len() int {
	return len(s.ids)
}

// LoadPreference reads the show-checked flag, defaulting to false when
// the value is absent or unparsable.
func (s *Store) LoadPreference() bool {
	raw, ok, err := s.backing.Get(showCheckedKey)
	if err != nil {
		utils.Log.Warnf("checked: unable to read show-checked preference: %v", err)
		return false
	}
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func (s *Store) SetPreference(show bool) {
	value := "false"
	if show {
		value = "true"
	}
	if err := s.backing.Set(showCheckedKey, value); err != nil {
		utils.Log.Warnf("checked: unable to persist show-checked preference: %v", err)
	}
}

func (s *Store) persist() {
	list := make([]string, 0, len(s.ids))
	for id := range s.ids {
		list = append(list, id)
	}
	sort.Strings(list)
	data, err := json.Marshal(list)
	if err != nil {
		utils.Log.Warnf("checked: unable to encode set: %v", err)
		return
	}
	if err := s.backing.Set(checkedKey, string(data)); err != nil {
		utils.Log.Warnf("checked: unable to persist set: %v", err)
	}
}
