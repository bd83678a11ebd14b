package api

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// TypeCourse is the content type discriminator of courses.
const TypeCourse = "course"

// Tag is a host tag record.
type Tag struct {
	ID         string
	Title      string
	Attributes map[string]any
}

// UnmarshalJSON keeps every attribute and lifts _id and title.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var attrs map[string]any
	if err := json.Unmarshal(data, &attrs); err != nil {
		return err
	}
	t.Attributes = attrs
	t.ID, _ = attrs["_id"].(string)
	t.Title, _ = attrs["title"].(string)
	return nil
}

// MarshalJSON writes the attributes back, with ID and Title taking precedence.
func (t Tag) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Attributes)+2)
	for k, v := range t.Attributes {
		out[k] = v
	}
	out["_id"] = t.ID
	out["title"] = t.Title
	return json.Marshal(out)
}

// Item is a course (content item) or an asset.
type Item struct {
	ID         string
	Type       string
	Title      string
	Attributes map[string]any
}

// UnmarshalJSON keeps every attribute and lifts _id, _type and title.
func (i *Item) UnmarshalJSON(data []byte) error {
	var attrs map[string]any
	if err := json.Unmarshal(data, &attrs); err != nil {
		return err
	}
	i.Attributes = attrs
	i.ID, _ = attrs["_id"].(string)
	i.Type, _ = attrs["_type"].(string)
	i.Title, _ = attrs["title"].(string)
	return nil
}

// MarshalJSON writes the raw attributes back.
func (i Item) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.Attributes)+3)
	for k, v := range i.Attributes {
		out[k] = v
	}
	out["_id"] = i.ID
	if i.Type != "" {
		out["_type"] = i.Type
	}
	if i.Title != "" {
		out["title"] = i.Title
	}
	return json.Marshal(out)
}

// TagIDs decodes the item's tags attribute. It fails when the attribute is
// missing or is not a list of tag identifiers.
func (i Item) TagIDs() ([]string, error) {
	raw, ok := i.Attributes["tags"]
	if !ok || raw == nil {
		return nil, fmt.Errorf("item %s has no tags attribute", i.ID)
	}

	var ids []string
	if err := mapstructure.Decode(raw, &ids); err != nil {
		return nil, fmt.Errorf("decoding tags of item %s: %w", i.ID, err)
	}
	return ids, nil
}

// TagQuery holds optional query options for the tag list request.
type TagQuery map[string]string

// Values returns the query as url.Values.
func (q TagQuery) Values() url.Values {
	v := url.Values{}
	for k, val := range q {
		v.Set(k, val)
	}
	return v
}

// String renders the query in key order, for logging.
func (q TagQuery) String() string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+q[k])
	}
	return strings.Join(parts, "&")
}

// ParseTagQuery builds a TagQuery from "key=value" pairs.
func ParseTagQuery(pairs []string) (TagQuery, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	q := make(TagQuery, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid filter %q: expected key=value", p)
		}
		q[strings.TrimSpace(k)] = v
	}
	return q, nil
}
