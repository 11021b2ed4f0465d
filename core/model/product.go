package model

import "time"

// Product 商品信息。价格以最小货币单位（韩元）表示。
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Category    string    `json:"category,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Stock       int       `json:"stock,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// ProductOption 商品可选项，如颜色、尺寸。
type ProductOption struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values,omitempty"`
}

// ProductWithOptions 携带可选项的商品详情。
type ProductWithOptions struct {
	Product
	Options []ProductOption `json:"options,omitempty"`
}
