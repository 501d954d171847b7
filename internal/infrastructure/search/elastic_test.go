package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProductQueryPaging(t *testing.T) {
	// 第 3 页、每页 10 条：from=20
	body := buildProductQuery("手机", 0, 0, 20, 10)

	assert.Equal(t, 20, body["from"])
	assert.Equal(t, 10, body["size"])
	// 不开 track_total_hits 时 total 在一万条后不再精确
	assert.Equal(t, true, body["track_total_hits"])
}

func TestBuildProductQueryPriceRange(t *testing.T) {
	body := buildProductQuery("手机", 10000, 50000, 0, 10)

	boolQuery, ok := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	require.True(t, ok)
	filter, ok := boolQuery["filter"].([]interface{})
	require.True(t, ok)
	require.Len(t, filter, 2)

	rangeClause := filter[1].(map[string]interface{})["range"].(map[string]interface{})
	priceRange := rangeClause["price_paise"].(map[string]interface{})
	assert.Equal(t, int64(10000), priceRange["gte"])
	assert.Equal(t, int64(50000), priceRange["lte"])
}

func TestBuildProductQueryNoPriceFilter(t *testing.T) {
	body := buildProductQuery("手机", 0, 0, 0, 10)

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filter := boolQuery["filter"].([]interface{})
	// 只剩 ACTIVE 状态过滤
	require.Len(t, filter, 1)
}
