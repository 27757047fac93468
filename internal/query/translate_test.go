package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"bootcamper/internal/domain"
)

func TestTranslateComparisonOperators(t *testing.T) {
	d, err := Translate(url.Values{"price[gt]": {"100"}})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"price": bson.M{"$gt": float64(100)}}, d.Filter)
}

func TestTranslateFullQuery(t *testing.T) {
	params := url.Values{
		"select": {"name,price"},
		"sort":   {"-price"},
		"page":   {"2"},
		"limit":  {"10"},
	}

	d, err := Translate(params)
	require.NoError(t, err)

	assert.Equal(t, bson.M{"name": 1, "price": 1}, d.Projection)
	assert.Equal(t, []SortKey{{Field: "price", Desc: true}}, d.Sort)
	assert.Equal(t, int64(10), d.Offset())
	assert.Equal(t, 10, d.Limit)
	assert.Empty(t, d.Filter)
}

func TestTranslateReservedKeysNotFilters(t *testing.T) {
	params := url.Values{
		"select":  {"name"},
		"sort":    {"name"},
		"page":    {"1"},
		"limit":   {"5"},
		"careers": {"Web Development"},
	}

	d, err := Translate(params)
	require.NoError(t, err)

	assert.Equal(t, bson.M{"careers": "Web Development"}, d.Filter)
}

func TestTranslateEqualityAndCoercion(t *testing.T) {
	d, err := Translate(url.Values{
		"housing":       {"true"},
		"averageRating": {"8"},
		"city":          {"Boston"},
	})
	require.NoError(t, err)

	assert.Equal(t, bson.M{
		"housing":       true,
		"averageRating": float64(8),
		"city":          "Boston",
	}, d.Filter)
}

func TestTranslateInSplitsList(t *testing.T) {
	d, err := Translate(url.Values{"careers[in]": {"Business,UI/UX"}})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"careers": bson.M{"$in": []interface{}{"Business", "UI/UX"}}}, d.Filter)
}

func TestTranslateCombinedOperatorsOnOneField(t *testing.T) {
	d, err := Translate(url.Values{
		"averageCost[gte]": {"1000"},
		"averageCost[lte]": {"10000"},
	})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"averageCost": bson.M{
		"$gte": float64(1000),
		"$lte": float64(10000),
	}}, d.Filter)
}

func TestTranslateRejectsUnknownOperator(t *testing.T) {
	_, err := Translate(url.Values{"price[regex]": {".*"}})

	require.Error(t, err)
	assert.True(t, domain.IsInvalidQuery(err))
}

func TestTranslateRejectsMalformedKeys(t *testing.T) {
	for _, key := range []string{"[gt]", "price[gt", "price]gt[", "pri$ce"} {
		_, err := Translate(url.Values{key: {"1"}})
		assert.Truef(t, domain.IsInvalidQuery(err), "key %q should be rejected", key)
	}
}

func TestTranslateDefaults(t *testing.T) {
	d, err := Translate(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 1, d.Page)
	assert.Equal(t, 1, d.Limit)
	assert.Equal(t, int64(0), d.Offset())
	assert.Nil(t, d.Projection)
	assert.Equal(t, []SortKey{{Field: DefaultSortField, Desc: true}}, d.Sort)
}

func TestTranslateGarbagePageAndLimit(t *testing.T) {
	d, err := Translate(url.Values{"page": {"abc"}, "limit": {"-3"}})
	require.NoError(t, err)

	assert.Equal(t, 1, d.Page)
	assert.Equal(t, 1, d.Limit)
}

func TestTranslateMultiKeySort(t *testing.T) {
	d, err := Translate(url.Values{"sort": {"name,-createdAt"}})
	require.NoError(t, err)

	assert.Equal(t, []SortKey{
		{Field: "name"},
		{Field: "createdAt", Desc: true},
	}, d.Sort)
	assert.Equal(t, bson.D{{Key: "name", Value: 1}, {Key: "createdAt", Value: -1}}, d.SortDoc())
}

func TestTranslateEmptySortKeyRejected(t *testing.T) {
	_, err := Translate(url.Values{"sort": {"name,-"}})
	assert.True(t, domain.IsInvalidQuery(err))
}
