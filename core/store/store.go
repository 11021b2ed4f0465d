package store

// TokenStore 抽象 access/refresh 令牌对的持久化，由业务方约定具体结构体。
type TokenStore[T any] interface {
	SaveTokens(tokens T) error
	LoadTokens() (T, error)
	ClearTokens() error
}

// CartStore 抽象购物车状态的持久化。
type CartStore[T any] interface {
	SaveCart(cart T) error
	LoadCart() (T, error)
	ClearCart() error
}

// ConfigStore 抽象用户偏好或客户端配置的存储。
type ConfigStore[T any] interface {
	SaveConfig(cfg T) error
	LoadConfig() (T, error)
	ClearConfig() error
}
