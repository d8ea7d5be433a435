package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		errMsg string
	}{
		{name: "zero value", params: Params{}},
		{name: "offset mode", params: Params{Limit: 10, Offset: 20}},
		{name: "page mode", params: Params{Page: 2, PageSize: 10}},
		{name: "negative limit", params: Params{Limit: -1}, errMsg: "limit cannot be negative"},
		{name: "negative offset", params: Params{Offset: -1}, errMsg: "offset cannot be negative"},
		{name: "negative page", params: Params{Page: -1}, errMsg: "page cannot be negative"},
		{name: "negative page-size", params: Params{PageSize: -1}, errMsg: "page-size cannot be negative"},
		{name: "mixed modes", params: Params{Page: 1, PageSize: 5, Offset: 10}, errMsg: "mutually exclusive"},
		{name: "page-size alone", params: Params{PageSize: 5}, errMsg: "page must be specified"},
		{name: "page alone", params: Params{Page: 2}, errMsg: "page-size must be specified"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestApply(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name   string
		params Params
		want   []int
	}{
		{"everything", Params{}, items},
		{"limit", Params{Limit: 3}, []int{1, 2, 3}},
		{"offset", Params{Offset: 5}, []int{6, 7}},
		{"offset and limit", Params{Offset: 2, Limit: 2}, []int{3, 4}},
		{"offset past end", Params{Offset: 10}, []int{}},
		{"first page", Params{Page: 1, PageSize: 3}, []int{1, 2, 3}},
		{"last partial page", Params{Page: 3, PageSize: 3}, []int{7}},
		{"page past end clamps", Params{Page: 9, PageSize: 3}, []int{7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.params, items))
		})
	}

	assert.Empty(t, Apply(Params{Limit: 2}, []int{}))
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		total  int
		want   Meta
	}{
		{
			name:  "single page",
			total: 4,
			want:  Meta{CurrentPage: 1, PageSize: 4, TotalPages: 1, TotalItems: 4},
		},
		{
			name:   "middle page",
			params: Params{Page: 2, PageSize: 3},
			total:  7,
			want:   Meta{CurrentPage: 2, PageSize: 3, TotalPages: 3, TotalItems: 7, HasPrevious: true, HasNext: true},
		},
		{
			name:   "offset converted to page",
			params: Params{Offset: 10, Limit: 5},
			total:  12,
			want:   Meta{CurrentPage: 3, PageSize: 5, TotalPages: 3, TotalItems: 12, HasPrevious: true},
		},
		{
			name:  "empty",
			total: 0,
			want:  Meta{CurrentPage: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMeta(tt.params, tt.total))
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		expr      string
		wantField string
		wantOrder string
		wantErr   bool
	}{
		{expr: "load", wantField: "load", wantOrder: SortOrderAsc},
		{expr: "load:desc", wantField: "load", wantOrder: SortOrderDesc},
		{expr: " name : ASC ", wantField: "name", wantOrder: SortOrderAsc},
		{expr: ":desc", wantErr: true},
		{expr: "load:down", wantErr: true},
		{expr: "a:b:c", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			field, order, err := ParseSort(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

type room struct {
	name string
	load float64
}

func TestSorter(t *testing.T) {
	s := NewSorter(map[string]func(a, b room) int{
		"name": By(func(r room) string { return r.name }),
		"load": By(func(r room) float64 { return r.load }),
	})
	rooms := []room{{"b", 2}, {"a", 3}, {"c", 1}, {"d", 3}}

	assert.Equal(t, []string{"load", "name"}, s.Fields())

	got, err := s.Sort(rooms, "load:desc")
	require.NoError(t, err)
	assert.Equal(t, []room{{"a", 3}, {"d", 3}, {"b", 2}, {"c", 1}}, got, "stable for equal keys")
	assert.Equal(t, room{"b", 2}, rooms[0], "input is not modified")

	got, err = s.Sort(rooms, "name")
	require.NoError(t, err)
	assert.Equal(t, "a", got[0].name)

	got, err = s.Sort(rooms, "")
	require.NoError(t, err)
	assert.Equal(t, rooms, got)

	_, err = s.Sort(rooms, "colour")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid: load, name")
}
