package model

import "time"

// OrderStatus 订单状态。
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderItem 订单中的单个商品行，下单时的价格快照。
type OrderItem struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductPrice int64  `json:"product_price"`
	Quantity     int    `json:"quantity"`
}

// Order 订单记录。
type Order struct {
	ID              string      `json:"id"`
	OrderNumber     string      `json:"order_number,omitempty"`
	UserID          string      `json:"user_id"`
	Status          OrderStatus `json:"status"`
	Items           []OrderItem `json:"items"`
	TotalAmount     int64       `json:"total_amount"`
	ShippingAddress string      `json:"shipping_address"`
	CreatedAt       time.Time   `json:"created_at,omitempty"`
	UpdatedAt       time.Time   `json:"updated_at,omitempty"`
}
