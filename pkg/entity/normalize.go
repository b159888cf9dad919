package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/niprobin/curated-digging/internal/utils"
)

var nameCollator = collate.New(language.Und, collate.IgnoreCase)

// CompareFolded compares two labels case-insensitively with the same
// collation used for sort tiebreaks.
func CompareFolded(a, b string) int {
	return nameCollator.CompareString(a, b)
}

// Normalize converts raw sheet rows into entities. Rows that are not JSON
// objects, carry a truthy hide flag, or lack a curator are dropped. The
// result is sorted newest first, undated rows last, ties broken by
// case-insensitive display name. Calling it twice on the same input yields
// the same output.
func Normalize(rows []gjson.Result, schema Schema) []Entity {
	entities := make([]Entity, 0, len(rows))

	for index, row := range rows {
		if !row.IsObject() {
			continue
		}

		if hideRequested(row.Get(schema.HideField)) {
			continue
		}

		curator := strings.TrimSpace(row.Get(schema.ScopeField).String())
		if curator == "" {
			continue
		}

		naturalKey := strings.TrimSpace(row.Get(schema.NaturalKeyField).String())
		id := naturalKey
		if id == "" {
			id = fmt.Sprintf("%s-%d", Slugify(curator), index)
		}

		e := Entity{
			ID:         id,
			Curator:    curator,
			RawDate:    strings.TrimSpace(row.Get(schema.DateField).String()),
			NaturalKey: naturalKey,
		}

		e.DisplayName = strings.TrimSpace(row.Get(schema.DisplayField).String())
		if e.DisplayName == "" {
			e.DisplayName = schema.DisplayFallback
		}
		if schema.SecondaryField != "" {
			e.SecondaryName = strings.TrimSpace(row.Get(schema.SecondaryField).String())
			if e.SecondaryName == "" {
				e.SecondaryName = schema.SecondaryFallback
			}
		}

		if parsed, ok := ParseDate(e.RawDate); ok {
			e.Instant = parsed.UnixMilli()
			e.Dated = true
		}

		entities = append(entities, e)
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return lessEntity(entities[i], entities[j])
	})
	return entities
}

// lessEntity orders by instant descending with undated entries last,
// then by display name ascending, ignoring case.
func lessEntity(a, b Entity) bool {
	ai, bi := sortInstant(a), sortInstant(b)
	if ai != bi {
		return ai > bi
	}
	return nameCollator.CompareString(a.DisplayName, b.DisplayName) < 0
}

const undatedSentinel = int64(-1 << 62)

func sortInstant(e Entity) int64 {
	if !e.Dated {
		return undatedSentinel
	}
	return e.Instant
}

// hideRequested interprets the hide/checked cell: booleans directly,
// numbers as non-zero, strings per the sheet's truthy spellings.
func hideRequested(value gjson.Result) bool {
	switch value.Type {
	case gjson.True:
		return true
	case gjson.False, gjson.Null:
		return false
	case gjson.Number:
		return value.Num != 0
	default:
		return utils.IsTruthy(value.String())
	}
}

// CountByCurator tallies entities per curator.
func CountByCurator(entities []Entity) map[string]int {
	counts := make(map[string]int)
	for _, e := range entities {
		counts[e.Curator]++
	}
	return counts
}
