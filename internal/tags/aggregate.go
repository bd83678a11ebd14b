package tags

import (
	"slices"
	"sync"

	"github.com/authoring-labs/debugtags/internal/api"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sorter orders rows by title with locale-aware collation.
type Sorter struct {
	mu       sync.Mutex
	collator *collate.Collator
}

// NewSorter returns a Sorter for the given language.
func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{collator: collate.New(tag)}
}

// Compare compares two titles.
func (s *Sorter) Compare(a, b string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collator.CompareString(a, b)
}

// SortRows sorts rows ascending by title. Rows with equal titles keep their
// relative order.
func (s *Sorter) SortRows(rows []Row) {
	// The collator reuses internal buffers and is not safe for concurrent use.
	s.mu.Lock()
	defer s.mu.Unlock()
	slices.SortStableFunc(rows, func(a, b Row) int {
		return s.collator.CompareString(a.Tag.Title, b.Tag.Title)
	})
}

// Aggregate cross-references tags with courses and assets. An item matches
// a tag when its tag set contains the tag's identifier; items whose tag set
// cannot be read match nothing and are listed in Snapshot.Unreadable.
func Aggregate(tagList []api.Tag, courses, assets []api.Item, sorter *Sorter) Snapshot {
	var unreadable []string
	courseSets := tagSets(courses, &unreadable)
	assetSets := tagSets(assets, &unreadable)

	rows := make([]Row, 0, len(tagList))
	for _, t := range tagList {
		row := Row{
			Tag:     t,
			Courses: matching(t.ID, courses, courseSets),
			Assets:  matching(t.ID, assets, assetSets),
		}
		row.Unused = len(row.Courses) == 0 && len(row.Assets) == 0
		rows = append(rows, row)
	}
	sorter.SortRows(rows)

	unused := 0
	for _, r := range rows {
		if r.Unused {
			unused++
		}
	}

	return Snapshot{
		Rows:        rows,
		UnusedCount: unused,
		Unreadable:  unreadable,
	}
}

// tagSets decodes each item's tag set once. A nil entry marks an item whose
// tags could not be read.
func tagSets(items []api.Item, unreadable *[]string) []map[string]struct{} {
	sets := make([]map[string]struct{}, len(items))
	for i, item := range items {
		ids, err := item.TagIDs()
		if err != nil {
			*unreadable = append(*unreadable, item.ID)
			continue
		}
		set := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		sets[i] = set
	}
	return sets
}

func matching(tagID string, items []api.Item, sets []map[string]struct{}) []api.Item {
	var out []api.Item
	for i, item := range items {
		if _, ok := sets[i][tagID]; ok {
			out = append(out, item)
		}
	}
	return out
}
