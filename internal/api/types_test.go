package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemTagIDs(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    []string
		wantErr bool
	}{
		{name: "ids", json: `{"_id":"c1","tags":["t1","t2"]}`, want: []string{"t1", "t2"}},
		{name: "empty", json: `{"_id":"c1","tags":[]}`, want: []string{}},
		{name: "missing", json: `{"_id":"c1"}`, wantErr: true},
		{name: "null", json: `{"_id":"c1","tags":null}`, wantErr: true},
		{name: "string", json: `{"_id":"c1","tags":"t1"}`, wantErr: true},
		{name: "objects", json: `{"_id":"c1","tags":[{"_id":"t1"}]}`, wantErr: true},
		{name: "numbers", json: `{"_id":"c1","tags":[1,2]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var item Item
			require.NoError(t, json.Unmarshal([]byte(tt.json), &item))
			got, err := item.TagIDs()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagKeepsUnknownAttributes(t *testing.T) {
	var tag Tag
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"t1","title":"Alpha","createdBy":"u1"}`), &tag))
	assert.Equal(t, "t1", tag.ID)
	assert.Equal(t, "Alpha", tag.Title)

	tag.Title = "Beta"
	out, err := json.Marshal(tag)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"t1","title":"Beta","createdBy":"u1"}`, string(out))
}

func TestParseTagQuery(t *testing.T) {
	q, err := ParseTagQuery([]string{"title=lang", " owner =me"})
	require.NoError(t, err)
	assert.Equal(t, TagQuery{"title": "lang", "owner": "me"}, q)
	assert.Equal(t, "owner=me&title=lang", q.String())

	q, err = ParseTagQuery(nil)
	require.NoError(t, err)
	assert.Nil(t, q)

	_, err = ParseTagQuery([]string{"novalue"})
	assert.Error(t, err)
	_, err = ParseTagQuery([]string{"=x"})
	assert.Error(t, err)
}
