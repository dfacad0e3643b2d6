package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec() Codec {
	return Codec{DefaultPageSize: 10, FilterKeys: []string{"status_id", "category_id"}}
}

func TestEncodeDropsDefaults(t *testing.T) {
	codec := testCodec()

	values := codec.Encode(codec.New())
	assert.Empty(t, values, "default state should encode to an empty query")

	q := codec.New().WithPage(3)
	values = codec.Encode(q)
	assert.Equal(t, "3", values.Get(ParamPage))
	assert.Empty(t, values.Get(ParamPageSize))
}

func TestDecodeDefensive(t *testing.T) {
	codec := testCodec()

	q := codec.Decode(url.Values{
		ParamPage:           []string{"banana"},
		ParamPageSize:       []string{"-2"},
		ParamOrderDirection: []string{"sideways"},
	})

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PageSize)
	assert.Empty(t, q.OrderDirection)
}

func TestDecodeFilters(t *testing.T) {
	codec := testCodec()

	q := codec.Decode(url.Values{
		"status_id": []string{"a", "b"},
	})
	assert.Equal(t, []string{"a", "b"}, q.Filters["status_id"])

	q = codec.Decode(url.Values{"category_id": []string{"only"}})
	assert.Equal(t, []string{"only"}, q.Filters["category_id"])
	assert.Empty(t, q.Filters["status_id"])
}

func TestRoundTrip(t *testing.T) {
	codec := testCodec()

	states := []ListQuery{
		codec.New(),
		codec.New().WithPage(5),
		codec.New().WithSort("amount", Desc),
		codec.New().WithSearch("mercado"),
		codec.New().WithPageSize(50),
		codec.New().WithFilter("status_id", []string{"1", "2"}).WithPage(4),
	}

	for _, state := range states {
		decoded := codec.Decode(codec.Encode(state))
		require.Equal(t, state, decoded)
	}
}

func TestTransitionsResetPage(t *testing.T) {
	codec := testCodec()
	q := codec.New().WithPage(7)

	assert.Equal(t, 1, q.WithSort("title", Asc).Page)
	assert.Equal(t, 1, q.WithSearch("luz").Page)
	assert.Equal(t, 1, q.WithPageSize(25).Page)
	assert.Equal(t, 1, q.WithFilter("status_id", []string{"x"}).Page)
}

func TestWithPageKeepsEverythingElse(t *testing.T) {
	codec := testCodec()
	q := codec.New().WithSort("amount", Desc).WithSearch("agua").WithFilter("status_id", []string{"1"})

	moved := q.WithPage(3)
	assert.Equal(t, 3, moved.Page)
	assert.Equal(t, "amount", moved.OrderBy)
	assert.Equal(t, Desc, moved.OrderDirection)
	assert.Equal(t, "agua", moved.Search)
	assert.Equal(t, []string{"1"}, moved.Filters["status_id"])
}

func TestWithFilterDoesNotMutateOriginal(t *testing.T) {
	codec := testCodec()
	q := codec.New().WithFilter("status_id", []string{"1"})

	_ = q.WithFilter("status_id", nil)
	assert.Equal(t, []string{"1"}, q.Filters["status_id"])
}

func TestRequestValuesKeepsPageExplicit(t *testing.T) {
	codec := testCodec()
	values := codec.New().RequestValues()

	assert.Equal(t, "1", values.Get(ParamPage))
	assert.Equal(t, "10", values.Get(ParamPageSize))
}
