package shopapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/escape-ship/shop-desktop/core/httpclient"
	"github.com/escape-ship/shop-desktop/core/model"
)

// CreateOrder 提交订单。商品行、收货地址与金额先在本地校验，
// 不合法时不发请求。
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	fields := map[string][]string{}
	if req.UserID == "" {
		fields["user_id"] = append(fields["user_id"], "사용자 정보가 필요합니다.")
	}
	if len(req.Items) == 0 {
		fields["items"] = append(fields["items"], "주문에는 최소 1개의 상품이 필요합니다.")
	}
	if req.ShippingAddress == "" {
		fields["shipping_address"] = append(fields["shipping_address"], "배송지를 입력해 주세요.")
	}
	for i, item := range req.Items {
		if item.ProductID == "" || item.ProductName == "" {
			fields["items"] = append(fields["items"], fmt.Sprintf("%d번 상품 정보가 누락되었습니다.", i+1))
			continue
		}
		if item.Quantity <= 0 {
			fields["items"] = append(fields["items"], fmt.Sprintf("%d번 상품 수량은 0보다 커야 합니다.", i+1))
		}
		if item.ProductPrice <= 0 {
			fields["items"] = append(fields["items"], fmt.Sprintf("%d번 상품 가격은 0보다 커야 합니다.", i+1))
		}
	}
	if len(fields) > 0 {
		return nil, httpclient.NewValidationError("shopapi: 订单入参校验失败", fields)
	}

	var rsp CreateOrderResponse
	if err := c.postJSON(ctx, pathOrderInsert, req, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// Orders 查询当前用户的订单列表。
func (c *Client) Orders(ctx context.Context, filters *OrderFilters) ([]model.Order, error) {
	query := url.Values{}
	if filters != nil {
		if filters.Status != "" {
			query.Set("status", string(filters.Status))
		}
		if filters.FromDate != "" {
			query.Set("from_date", filters.FromDate)
		}
		if filters.ToDate != "" {
			query.Set("to_date", filters.ToDate)
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
	var rsp ordersResponse
	if err := c.get(ctx, pathOrders, query, &rsp); err != nil {
		return nil, err
	}
	return rsp.Orders, nil
}

// OrderByID 查询单个订单。
func (c *Client) OrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	if orderID == "" {
		return nil, httpclient.NewValidationError("shopapi: 缺少订单 ID", map[string][]string{
			"order_id": {"주문 ID가 필요합니다."},
		})
	}
	var rsp orderResponse
	if err := c.get(ctx, pathOrders+"/"+url.PathEscape(orderID), nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp.Order, nil
}

// GenerateOrderNumber 生成订单号：ORD-<毫秒时间戳>-<用户ID末四位>-<随机段>。
func GenerateOrderNumber(userID string) string {
	suffix := userID
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	random := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("ORD-%d-%s-%s", time.Now().UnixMilli(), suffix, random)
}
