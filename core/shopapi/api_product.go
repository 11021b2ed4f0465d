package shopapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/escape-ship/shop-desktop/core/httpclient"
	"github.com/escape-ship/shop-desktop/core/model"
)

// Products 按条件查询商品列表。
func (c *Client) Products(ctx context.Context, filters *ProductFilters) ([]model.Product, error) {
	query := url.Values{}
	if filters != nil {
		if filters.Category != "" {
			query.Set("category", filters.Category)
		}
		if filters.MinPrice > 0 {
			query.Set("min_price", strconv.FormatInt(filters.MinPrice, 10))
		}
		if filters.MaxPrice > 0 {
			query.Set("max_price", strconv.FormatInt(filters.MaxPrice, 10))
		}
		if filters.Search != "" {
			query.Set("search", filters.Search)
		}
		if filters.Page > 0 {
			query.Set("page", strconv.Itoa(filters.Page))
		}
		if filters.Limit > 0 {
			query.Set("limit", strconv.Itoa(filters.Limit))
		}
		if filters.Sort != "" {
			query.Set("sort", filters.Sort)
		}
		if filters.Order != "" {
			query.Set("order", string(filters.Order))
		}
	}
	var rsp productsResponse
	if err := c.get(ctx, pathProducts, query, &rsp); err != nil {
		return nil, err
	}
	return rsp.Products, nil
}

// ProductByID 查询单个商品详情。
func (c *Client) ProductByID(ctx context.Context, id string) (*model.ProductWithOptions, error) {
	if id == "" {
		return nil, httpclient.NewValidationError("shopapi: 缺少商品 ID", map[string][]string{
			"id": {"상품 ID가 필요합니다."},
		})
	}
	var rsp productResponse
	if err := c.get(ctx, pathProducts+"/"+url.PathEscape(id), nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp.Product, nil
}

// CreateProduct 新建商品，仅管理员可用，权限由后端校验。
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (*CreateProductResponse, error) {
	fields := map[string][]string{}
	if req.Name == "" {
		fields["name"] = append(fields["name"], "상품명을 입력해 주세요.")
	}
	if req.Price <= 0 {
		fields["price"] = append(fields["price"], "가격은 0보다 커야 합니다.")
	}
	if len(fields) > 0 {
		return nil, httpclient.NewValidationError("shopapi: 商品入参校验失败", fields)
	}
	var rsp CreateProductResponse
	if err := c.postJSON(ctx, pathProducts, req, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// ProductsByCategory 按分类查询商品。
func (c *Client) ProductsByCategory(ctx context.Context, category string, filters *ProductFilters) ([]model.Product, error) {
	merged := ProductFilters{Category: category}
	if filters != nil {
		merged = *filters
		merged.Category = category
	}
	return c.Products(ctx, &merged)
}

// SearchProducts 按关键词搜索商品名与描述。
func (c *Client) SearchProducts(ctx context.Context, keyword string, filters *ProductFilters) ([]model.Product, error) {
	merged := ProductFilters{Search: keyword}
	if filters != nil {
		merged = *filters
		merged.Search = keyword
	}
	return c.Products(ctx, &merged)
}
