package shopapi

import (
	"context"
	"fmt"

	"github.com/escape-ship/shop-desktop/core/cart"
	"github.com/escape-ship/shop-desktop/core/httpclient"
)

// PayReady 发起 Kakao Pay 支付准备，拿到 tid 与跳转地址。
func (c *Client) PayReady(ctx context.Context, req KakaoPayReadyRequest) (*KakaoPayReadyResponse, error) {
	fields := map[string][]string{}
	if req.PartnerOrderID == "" {
		fields["partner_order_id"] = append(fields["partner_order_id"], "주문 번호가 필요합니다.")
	}
	if req.PartnerUserID == "" {
		fields["partner_user_id"] = append(fields["partner_user_id"], "사용자 정보가 필요합니다.")
	}
	if req.ItemName == "" {
		fields["item_name"] = append(fields["item_name"], "상품명이 필요합니다.")
	}
	if req.Quantity <= 0 {
		fields["quantity"] = append(fields["quantity"], "수량은 0보다 커야 합니다.")
	}
	if req.TotalAmount <= 0 {
		fields["total_amount"] = append(fields["total_amount"], "결제 금액은 0보다 커야 합니다.")
	}
	if len(fields) > 0 {
		return nil, httpclient.NewValidationError("shopapi: 支付准备入参校验失败", fields)
	}

	var rsp KakaoPayReadyResponse
	if err := c.postJSON(ctx, pathPayReady, req, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// PayApprove 批准支付，完成结算。
func (c *Client) PayApprove(ctx context.Context, req KakaoPayApproveRequest) (*KakaoPayApproveResponse, error) {
	fields := map[string][]string{}
	if req.TID == "" {
		fields["tid"] = append(fields["tid"], "거래 ID가 필요합니다.")
	}
	if req.PartnerOrderID == "" {
		fields["partner_order_id"] = append(fields["partner_order_id"], "주문 번호가 필요합니다.")
	}
	if req.PartnerUserID == "" {
		fields["partner_user_id"] = append(fields["partner_user_id"], "사용자 정보가 필요합니다.")
	}
	if req.PgToken == "" {
		fields["pg_token"] = append(fields["pg_token"], "결제 토큰이 필요합니다.")
	}
	if len(fields) > 0 {
		return nil, httpclient.NewValidationError("shopapi: 支付批准入参校验失败", fields)
	}

	var rsp KakaoPayApproveResponse
	if err := c.postJSON(ctx, pathPayApprove, req, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// PayCancel 取消支付。
func (c *Client) PayCancel(ctx context.Context, req KakaoPayCancelRequest) (*KakaoPayCancelResponse, error) {
	fields := map[string][]string{}
	if req.PartnerOrderID == "" {
		fields["partner_order_id"] = append(fields["partner_order_id"], "주문 번호가 필요합니다.")
	}
	if req.CancelAmount <= 0 {
		fields["cancel_amount"] = append(fields["cancel_amount"], "취소 금액은 0보다 커야 합니다.")
	}
	if len(fields) > 0 {
		return nil, httpclient.NewValidationError("shopapi: 支付取消入参校验失败", fields)
	}

	var rsp KakaoPayCancelResponse
	if err := c.postJSON(ctx, pathPayCancel, req, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// BuildReadyRequest 从购物车商品行组装支付准备请求。
// 多个商品时按「首个商品名 외 N건」汇总名称；运费计入免税额。
func BuildReadyRequest(orderID, userID string, items []cart.Item, totalAmount, shippingFee int64) KakaoPayReadyRequest {
	itemName := ""
	quantity := 0
	for _, item := range items {
		quantity += item.Quantity
	}
	if len(items) == 1 {
		itemName = items[0].Name
	} else if len(items) > 1 {
		itemName = fmt.Sprintf("%s 외 %d건", items[0].Name, len(items)-1)
	}
	return KakaoPayReadyRequest{
		PartnerOrderID: orderID,
		PartnerUserID:  userID,
		ItemName:       itemName,
		Quantity:       quantity,
		TotalAmount:    totalAmount,
		TaxFreeAmount:  shippingFee,
	}
}

// ProcessCallback 处理 Kakao Pay 跳转回调：校验回调参数后批准支付。
func (c *Client) ProcessCallback(ctx context.Context, tid, pgToken, orderID, userID string) (*KakaoPayApproveResponse, error) {
	if tid == "" || pgToken == "" {
		return nil, httpclient.NewValidationError("shopapi: 支付回调参数残缺", map[string][]string{
			"callback": {"결제 콜백 정보가 올바르지 않습니다."},
		})
	}
	return c.PayApprove(ctx, KakaoPayApproveRequest{
		TID:            tid,
		PartnerOrderID: orderID,
		PartnerUserID:  userID,
		PgToken:        pgToken,
	})
}
