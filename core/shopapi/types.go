package shopapi

import (
	"github.com/escape-ship/shop-desktop/core/model"
)

// ==== 认证 ====

// LoginRequest 邮箱密码登录请求。
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse 登录响应，user 字段可选。
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         *model.User `json:"user,omitempty"`
}

// RegisterRequest 注册请求。
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// RegisterResponse 注册响应。
type RegisterResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user,omitempty"`
}

// RefreshRequest 令牌刷新请求。
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse 令牌刷新响应，返回轮换后的令牌对。
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// KakaoLoginURLResponse Kakao 登录入口地址响应。
type KakaoLoginURLResponse struct {
	LoginURL string `json:"login_url"`
}

// KakaoCallbackRequest Kakao OAuth 回调请求。
type KakaoCallbackRequest struct {
	Code string `json:"code"`
}

// KakaoCallbackResponse Kakao OAuth 回调响应。
// user_info_json 是序列化的 Kakao 用户信息，用 ParseKakaoUser 解析。
type KakaoCallbackResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserInfoJSON string `json:"user_info_json"`
}

// ==== 商品 ====

// SortOrder 排序方向。
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ProductFilters 商品列表的过滤与分页条件，零值字段不进入查询串。
type ProductFilters struct {
	Category string
	MinPrice int64
	MaxPrice int64
	Search   string
	Page     int
	Limit    int
	Sort     string
	Order    SortOrder
}

type productsResponse struct {
	Products []model.Product `json:"products"`
}

type productResponse struct {
	Product model.ProductWithOptions `json:"product"`
}

// CreateProductRequest 新建商品请求（仅管理员）。
type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Category    string `json:"category,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Stock       int    `json:"stock,omitempty"`
}

// CreateProductResponse 新建商品响应。
type CreateProductResponse struct {
	Message string         `json:"message,omitempty"`
	Product *model.Product `json:"product,omitempty"`
}

// ==== 订单 ====

// OrderFilters 订单列表的过滤与分页条件。
type OrderFilters struct {
	Status   model.OrderStatus
	FromDate string
	ToDate   string
	Page     int
	Limit    int
	Sort     string
	Order    SortOrder
}

// OrderItemRequest 下单时的商品行。
type OrderItemRequest struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductPrice int64  `json:"product_price"`
	Quantity     int    `json:"quantity"`
}

// CreateOrderRequest 下单请求。
type CreateOrderRequest struct {
	UserID          string             `json:"user_id"`
	OrderNumber     string             `json:"order_number,omitempty"`
	Items           []OrderItemRequest `json:"items"`
	TotalAmount     int64              `json:"total_amount"`
	ShippingAddress string             `json:"shipping_address"`
}

// CreateOrderResponse 下单响应。
type CreateOrderResponse struct {
	Message string       `json:"message,omitempty"`
	Order   *model.Order `json:"order,omitempty"`
}

type ordersResponse struct {
	Orders []model.Order `json:"orders"`
}

type orderResponse struct {
	Order model.Order `json:"order"`
}

// ==== Kakao Pay ====

// KakaoPayReadyRequest 支付准备请求，金额必须为整数韩元。
type KakaoPayReadyRequest struct {
	PartnerOrderID string `json:"partner_order_id"`
	PartnerUserID  string `json:"partner_user_id"`
	ItemName       string `json:"item_name"`
	Quantity       int    `json:"quantity"`
	TotalAmount    int64  `json:"total_amount"`
	TaxFreeAmount  int64  `json:"tax_free_amount"`
}

// KakaoPayReadyResponse 支付准备响应，tid 需在回调批准时原样带回。
type KakaoPayReadyResponse struct {
	TID                   string `json:"tid"`
	NextRedirectPCURL     string `json:"next_redirect_pc_url,omitempty"`
	NextRedirectMobileURL string `json:"next_redirect_mobile_url,omitempty"`
	CreatedAt             string `json:"created_at,omitempty"`
}

// KakaoPayApproveRequest 支付批准请求。
type KakaoPayApproveRequest struct {
	TID            string `json:"tid"`
	PartnerOrderID string `json:"partner_order_id"`
	PartnerUserID  string `json:"partner_user_id"`
	PgToken        string `json:"pg_token"`
}

// KakaoPayApproveResponse 支付批准响应。
type KakaoPayApproveResponse struct {
	AID            string `json:"aid"`
	TID            string `json:"tid"`
	PartnerOrderID string `json:"partner_order_id"`
	PartnerUserID  string `json:"partner_user_id"`
	ItemName       string `json:"item_name,omitempty"`
	Quantity       int    `json:"quantity,omitempty"`
	TotalAmount    int64  `json:"total_amount,omitempty"`
	ApprovedAt     string `json:"approved_at,omitempty"`
}

// KakaoPayCancelRequest 支付取消请求。
type KakaoPayCancelRequest struct {
	TID                 string `json:"tid,omitempty"`
	PartnerOrderID      string `json:"partner_order_id"`
	CancelAmount        int64  `json:"cancel_amount"`
	CancelTaxFreeAmount int64  `json:"cancel_tax_free_amount,omitempty"`
}

// KakaoPayCancelResponse 支付取消响应。
type KakaoPayCancelResponse struct {
	AID         string `json:"aid,omitempty"`
	TID         string `json:"tid"`
	Status      string `json:"status,omitempty"`
	CancelledAt string `json:"cancelled_at,omitempty"`
}
