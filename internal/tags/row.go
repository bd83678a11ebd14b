package tags

import (
	"encoding/json"
	"time"

	"github.com/authoring-labs/debugtags/internal/api"
)

// Row is a tag with the courses and assets that reference it.
type Row struct {
	Tag     api.Tag
	Courses []api.Item
	Assets  []api.Item
	// Unused is true when neither Courses nor Assets has an entry.
	Unused bool
}

// ID returns the tag identifier.
func (r Row) ID() string { return r.Tag.ID }

// Title returns the tag title.
func (r Row) Title() string { return r.Tag.Title }

// MarshalJSON flattens the tag attributes next to the derived fields.
func (r Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Tag.Attributes)+5)
	for k, v := range r.Tag.Attributes {
		out[k] = v
	}
	out["_id"] = r.Tag.ID
	out["title"] = r.Tag.Title
	out["courses"] = nonNil(r.Courses)
	out["assets"] = nonNil(r.Assets)
	out["unused"] = r.Unused
	return json.Marshal(out)
}

// Snapshot is the aggregated state produced by one fetch. It is replaced as
// a whole on every fetch and never patched in place.
type Snapshot struct {
	Rows        []Row
	UnusedCount int
	// Unreadable lists items whose tag set could not be read. They match
	// no tag.
	Unreadable []string
	FetchedAt  time.Time
}

// Row returns the row for tag id.
func (s Snapshot) Row(id string) (Row, bool) {
	for _, r := range s.Rows {
		if r.Tag.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// UnusedRows returns the rows flagged unused, in display order.
func (s Snapshot) UnusedRows() []Row {
	var out []Row
	for _, r := range s.Rows {
		if r.Unused {
			out = append(out, r)
		}
	}
	return out
}

func nonNil(items []api.Item) []api.Item {
	if items == nil {
		return []api.Item{}
	}
	return items
}
