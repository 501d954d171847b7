package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"marketplace/internal/config"
	"marketplace/internal/model"
	"marketplace/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
)

const productIndex = "products"

// ProductIndexer 商品搜索索引
// 写入是尽力而为：索引失败只记日志，不阻塞商品主流程
type ProductIndexer struct {
	client  *elasticsearch.Client
	enabled bool
}

// InitElastic 初始化 ES 客户端
// enabled=false 时返回空实现，调用方无需判空
func InitElastic(cfg *config.ElasticConfig) *ProductIndexer {
	if !cfg.Enabled {
		return &ProductIndexer{enabled: false}
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		log := logger.With("search")
		log.Error().Err(err).Msg("创建 Elasticsearch 客户端失败，搜索降级为数据库查询")
		return &ProductIndexer{enabled: false}
	}

	return &ProductIndexer{client: client, enabled: true}
}

func (p *ProductIndexer) Enabled() bool {
	return p.enabled
}

// IndexProduct 写入/覆盖商品文档
func (p *ProductIndexer) IndexProduct(ctx context.Context, product *model.Product) error {
	if !p.enabled {
		return nil
	}

	doc := map[string]interface{}{
		"id":          product.ID,
		"seller_id":   product.SellerID,
		"name":        product.Name,
		"description": product.Description,
		"category":    product.Category,
		"price_paise": product.PricePaise,
		"status":      product.Status,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := p.client.Index(
		productIndex,
		bytes.NewReader(body),
		p.client.Index.WithDocumentID(strconv.FormatInt(product.ID, 10)),
		p.client.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("索引商品失败: %s", res.Status())
	}
	return nil
}

// DeleteProduct 删除商品文档
func (p *ProductIndexer) DeleteProduct(ctx context.Context, productID int64) error {
	if !p.enabled {
		return nil
	}

	res, err := p.client.Delete(
		productIndex,
		strconv.FormatInt(productID, 10),
		p.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// 文档不存在不算错误
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("删除商品索引失败: %s", res.Status())
	}
	return nil
}

// buildProductQuery 组装搜索请求体
// multi_match 命中 name/description，可选价格区间过滤，只返回 ACTIVE 商品
// from/size 做深分页，track_total_hits 让 total 返回精确值
func buildProductQuery(query string, minPrice, maxPrice int64, from, size int) map[string]interface{} {
	must := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name", "description"},
			},
		},
	}
	filter := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"status": model.ProductStatusActive},
		},
	}

	priceRange := map[string]interface{}{}
	if minPrice > 0 {
		priceRange["gte"] = minPrice
	}
	if maxPrice > 0 {
		priceRange["lte"] = maxPrice
	}
	if len(priceRange) > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"price_paise": priceRange},
		})
	}

	return map[string]interface{}{
		"from":             from,
		"size":             size,
		"track_total_hits": true,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}
}

// SearchProducts 搜索商品，返回命中的商品 ID 和命中总数
func (p *ProductIndexer) SearchProducts(ctx context.Context, query string, minPrice, maxPrice int64, from, size int) ([]int64, int64, error) {
	if !p.enabled {
		return nil, 0, fmt.Errorf("搜索服务未启用")
	}

	body, err := json.Marshal(buildProductQuery(query, minPrice, maxPrice, from, size))
	if err != nil {
		return nil, 0, err
	}

	res, err := p.client.Search(
		p.client.Search.WithContext(ctx),
		p.client.Search.WithIndex(productIndex),
		p.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("搜索失败: %s", res.Status())
	}

	var result struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, result.Hits.Total.Value, nil
}
