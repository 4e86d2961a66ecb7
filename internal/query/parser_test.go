package query_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nondefyde/coderealm-api/internal/query"
)

/*
TestParse_FilterKeys checks that plain query keys become equality filters
while control keys are stripped, and that soft-deleted rows are always
filtered out.
*/
func TestParse_FilterKeys(t *testing.T) {
	values := url.Values{}
	values.Set("name", "gold")
	values.Set("active", "true")
	values.Set("per_page", "5")
	values.Set("page", "2")
	values.Set("api_key", "secret")
	values.Set("token", "abc")

	d := query.Parse(values, nil)

	assert.Equal(t, "gold", d.Filter["name"])
	assert.Equal(t, "true", d.Filter["active"])
	assert.Equal(t, false, d.Filter["deleted"])
	assert.NotContains(t, d.Filter, "per_page")
	assert.NotContains(t, d.Filter, "page")
	assert.NotContains(t, d.Filter, "api_key")
	assert.NotContains(t, d.Filter, "token")
}

/*
TestParse_DeletedAlwaysFalse verifies a caller cannot opt back into seeing
soft-deleted rows through the filter surface.
*/
func TestParse_DeletedAlwaysFalse(t *testing.T) {
	values := url.Values{}
	values.Set("deleted", "true")
	values.Set("nested", `{"deleted": true}`)

	d := query.Parse(values, nil)

	assert.Equal(t, false, d.Filter["deleted"])
}

/*
TestParse_NestedOverlay checks that the nested JSON object overlays extra
filter keys on top of the plain ones.
*/
func TestParse_NestedOverlay(t *testing.T) {
	values := url.Values{}
	values.Set("name", "gold")
	values.Set("nested", `{"category": "metals", "rank": 3}`)

	d := query.Parse(values, nil)

	assert.Equal(t, "gold", d.Filter["name"])
	assert.Equal(t, "metals", d.Filter["category"])
	assert.Equal(t, float64(3), d.Filter["rank"])
}

/*
TestParse_Includes checks the includes directive rewrites a filter key into
set membership.
*/
func TestParse_Includes(t *testing.T) {
	values := url.Values{}
	values.Set("includes", `{"key": "name", "value": ["gold", "silver"]}`)

	d := query.Parse(values, nil)

	assert.Equal(t, []any{"gold", "silver"}, d.Filter["name"])
}

/*
TestParse_MalformedControlJSON verifies malformed control JSON degrades to
the default instead of failing the request.
*/
func TestParse_MalformedControlJSON(t *testing.T) {
	values := url.Values{}
	values.Set("name", "gold")
	values.Set("nested", `{not json`)
	values.Set("selection", `[broken`)
	values.Set("population", `{bad}`)
	values.Set("includes", `nope`)
	values.Set("sort", `{invalid`)

	d := query.Parse(values, nil)

	assert.Equal(t, "gold", d.Filter["name"])
	assert.Empty(t, d.Selection)
	assert.Empty(t, d.Population)
	require.Len(t, d.Sort, 1)
	assert.Equal(t, query.SortField{Field: "created_at", Desc: true}, d.Sort[0])
}

/*
TestParse_SelectionAndPopulation checks the JSON array control keys.
*/
func TestParse_SelectionAndPopulation(t *testing.T) {
	values := url.Values{}
	values.Set("selection", `["name", "active"]`)
	values.Set("population", `["user_id"]`)

	d := query.Parse(values, nil)

	assert.Equal(t, []string{"name", "active"}, d.Selection)
	assert.Equal(t, []string{"user_id"}, d.Population)
}

/*
TestParse_Sort covers both sort syntaxes and the implicit created_at DESC
tail.
*/
func TestParse_Sort(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []query.SortField
	}{
		{
			name: "default",
			raw:  "",
			want: []query.SortField{{Field: "created_at", Desc: true}},
		},
		{
			name: "compact_string",
			raw:  "-name,rank",
			want: []query.SortField{
				{Field: "name", Desc: true},
				{Field: "rank"},
				{Field: "created_at", Desc: true},
			},
		},
		{
			name: "explicit_created_at_not_duplicated",
			raw:  "created_at",
			want: []query.SortField{{Field: "created_at"}},
		},
		{
			name: "json_numeric_direction",
			raw:  `{"rank": -1}`,
			want: []query.SortField{
				{Field: "rank", Desc: true},
				{Field: "created_at", Desc: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			values.Set("sort", tt.raw)
			d := query.Parse(values, nil)
			assert.Equal(t, tt.want, d.Sort)
		})
	}
}

/*
TestParse_All verifies the pagination bypass flag.
*/
func TestParse_All(t *testing.T) {
	values := url.Values{}
	assert.False(t, query.Parse(values, nil).All)

	values.Set("all", "true")
	assert.True(t, query.Parse(values, nil).All)
}
