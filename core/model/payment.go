package model

import "time"

// PaymentStatus 支付状态。
type PaymentStatus string

const (
	PaymentStatusReady     PaymentStatus = "ready"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentMethod 支付方式。目前仅对接 Kakao Pay。
type PaymentMethod string

const (
	PaymentMethodKakaoPay PaymentMethod = "kakao_pay"
)

// Payment 一次支付的本地记录，tid 为支付方的交易标识。
type Payment struct {
	TID        string        `json:"tid"`
	OrderID    string        `json:"order_id"`
	UserID     string        `json:"user_id"`
	Method     PaymentMethod `json:"method"`
	Status     PaymentStatus `json:"status"`
	Amount     int64         `json:"amount"`
	ApprovedAt time.Time     `json:"approved_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at,omitempty"`
}
