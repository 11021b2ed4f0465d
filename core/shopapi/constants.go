package shopapi

// 默认后端地址与客户端标识。
const (
	DefaultBaseURL = "http://localhost:8080"
	UserAgent      = "shop-desktop"
)

// 后端接口路径。
const (
	pathLogin         = "/login"
	pathRegister      = "/register"
	pathRefresh       = "/auth/refresh"
	pathKakaoLogin    = "/oauth/kakao/login"
	pathKakaoCallback = "/oauth/kakao/callback"
	pathProducts      = "/products"
	pathOrders        = "/v1/order"
	pathOrderInsert   = "/v1/order/insert"
	pathPayReady      = "/payment/kakao/ready"
	pathPayApprove    = "/payment/kakao/approve"
	pathPayCancel     = "/payment/kakao/cancel"
)
