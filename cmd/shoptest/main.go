// 商城 API 手工测试入口：登录 → 商品 → 购物车 → 下单 → 支付。
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/escape-ship/shop-desktop/core/auth"
	"github.com/escape-ship/shop-desktop/core/cart"
	"github.com/escape-ship/shop-desktop/core/config"
	"github.com/escape-ship/shop-desktop/core/httpclient"
	"github.com/escape-ship/shop-desktop/core/shopapi"
	"github.com/escape-ship/shop-desktop/core/store"
)

// zapLogger 把 zap 适配到 core 层的 Logger 接口。
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l zapLogger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l zapLogger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	var zl *zap.Logger
	if cfg.Log.Mode == "release" {
		zl, err = zap.NewProduction()
	} else {
		zl, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer zl.Sync()
	logger := zapLogger{sugar: zl.Sugar()}

	fs, err := store.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化本地存储失败: %v\n", err)
		os.Exit(1)
	}
	tokenStore := store.NewTokenFileStore[auth.TokenPair](fs, store.TokenFileName)
	cartStore := store.NewCartFileStore[cart.State](fs, store.CartFileName)

	refresher := auth.NewAPIRefresher(nil, tokenStore,
		auth.WithRefreshURL(cfg.API.BaseURL+"/auth/refresh"),
		auth.WithRefreshLogger(logger),
	)
	manager := auth.NewManager(tokenStore,
		auth.WithRefresher(refresher),
		auth.WithLogger(logger),
	)
	snap := manager.Init()
	fmt.Printf("会话状态: %s\n", snap.State)

	// 周期检查令牌过期，过期即登出
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go manager.WatchExpiry(watchCtx, time.Minute)

	retryCfg := httpclient.DefaultRetryConfig()
	retryCfg.Logger = logger
	retryCfg.Refresh = func() error {
		// 经过 manager 刷新，内存中的令牌缓存与存储保持同步
		return manager.Refresh(context.Background())
	}
	apiClient := httpclient.NewClient(
		httpclient.WithTimeout(cfg.API.Timeout),
		httpclient.WithLogger(logger),
		httpclient.WithRetryPolicy(httpclient.NewAuthBackoffRetry(retryCfg)),
		httpclient.WithMiddlewares(
			httpclient.WithUserAgent(shopapi.UserAgent),
			httpclient.WithBearerToken(manager),
		),
		httpclient.WithRateLimiter(httpclient.NewHostLimiter(10, 5, nil)),
	)
	shop := shopapi.NewClient(
		shopapi.WithHTTPClient(apiClient),
		shopapi.WithBaseURL(cfg.API.BaseURL),
		shopapi.WithLogger(logger),
	)
	basket := cart.NewStore(cartStore, cart.WithLogger(logger))

	reader := bufio.NewReader(os.Stdin)
	ctx := context.Background()
	for {
		fmt.Println()
		fmt.Println("1) 登录  2) 商品列表  3) 加入购物车  4) 查看购物车  5) 下单  6) 发起支付  7) 登出  q) 退出")
		fmt.Print("> ")
		line, _ := reader.ReadString('\n')
		switch strings.TrimSpace(line) {
		case "1":
			doLogin(ctx, reader, shop, manager)
		case "2":
			listProducts(ctx, shop)
		case "3":
			addToCart(ctx, reader, shop, basket)
		case "4":
			showCart(basket)
		case "5":
			placeOrder(ctx, shop, manager, basket)
		case "6":
			startPayment(ctx, shop, manager, basket)
		case "7":
			manager.Logout()
			fmt.Println("已登出")
		case "q":
			return
		}
	}
}

func doLogin(ctx context.Context, reader *bufio.Reader, shop *shopapi.Client, manager *auth.Manager) {
	fmt.Print("邮箱: ")
	email, _ := reader.ReadString('\n')
	fmt.Print("密码: ")
	password, _ := reader.ReadString('\n')

	rsp, err := shop.Login(ctx, shopapi.LoginRequest{
		Email:    strings.TrimSpace(email),
		Password: strings.TrimSpace(password),
	})
	if err != nil {
		fmt.Printf("登录失败: %v (%s)\n", err, httpclient.UserMessage(err))
		return
	}
	pair := auth.TokenPair{AccessToken: rsp.AccessToken, RefreshToken: rsp.RefreshToken}
	if err := manager.Login(pair, rsp.User); err != nil {
		fmt.Printf("保存会话失败: %v\n", err)
		return
	}
	fmt.Println("登录成功")
}

func listProducts(ctx context.Context, shop *shopapi.Client) {
	products, err := shop.Products(ctx, &shopapi.ProductFilters{Limit: 20})
	if err != nil {
		fmt.Printf("查询商品失败: %v\n", err)
		return
	}
	for _, p := range products {
		fmt.Printf("  [%s] %s  %d원\n", p.ID, p.Name, p.Price)
	}
}

func addToCart(ctx context.Context, reader *bufio.Reader, shop *shopapi.Client, basket *cart.Store) {
	fmt.Print("商品 ID: ")
	id, _ := reader.ReadString('\n')
	fmt.Print("数量: ")
	qtyLine, _ := reader.ReadString('\n')
	qty, _ := strconv.Atoi(strings.TrimSpace(qtyLine))

	product, err := shop.ProductByID(ctx, strings.TrimSpace(id))
	if err != nil {
		fmt.Printf("查询商品失败: %v\n", err)
		return
	}
	basket.AddItem(cart.Item{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Quantity: qty,
		Image:    product.ImageURL,
	})
	fmt.Printf("已加入，购物车共 %d 件\n", basket.TotalItems())
}

func showCart(basket *cart.Store) {
	for _, item := range basket.Items() {
		fmt.Printf("  %s x%d  %d원\n", item.Name, item.Quantity, item.Price*int64(item.Quantity))
	}
	fmt.Printf("合计 %d 件 / %d원\n", basket.TotalItems(), basket.TotalPrice())
}

func placeOrder(ctx context.Context, shop *shopapi.Client, manager *auth.Manager, basket *cart.Store) {
	user := manager.User()
	if user == nil {
		fmt.Println("请先登录")
		return
	}
	items := basket.Items()
	if len(items) == 0 {
		fmt.Println("购物车为空")
		return
	}
	req := shopapi.CreateOrderRequest{
		UserID:          user.ID,
		OrderNumber:     shopapi.GenerateOrderNumber(user.ID),
		TotalAmount:     basket.TotalPrice(),
		ShippingAddress: "서울특별시 강남구 테헤란로 1",
	}
	for _, item := range items {
		req.Items = append(req.Items, shopapi.OrderItemRequest{
			ProductID:    item.ID,
			ProductName:  item.Name,
			ProductPrice: item.Price,
			Quantity:     item.Quantity,
		})
	}
	rsp, err := shop.CreateOrder(ctx, req)
	if err != nil {
		fmt.Printf("下单失败: %v (%s)\n", err, httpclient.UserMessage(err))
		return
	}
	// 下单成功后清空购物车
	basket.Clear()
	if rsp.Order != nil {
		fmt.Printf("下单成功: %s\n", rsp.Order.ID)
	} else {
		fmt.Printf("下单成功: %s\n", rsp.Message)
	}
}

func startPayment(ctx context.Context, shop *shopapi.Client, manager *auth.Manager, basket *cart.Store) {
	user := manager.User()
	if user == nil {
		fmt.Println("请先登录")
		return
	}
	items := basket.Items()
	if len(items) == 0 {
		fmt.Println("购物车为空")
		return
	}
	req := shopapi.BuildReadyRequest(
		shopapi.GenerateOrderNumber(user.ID),
		user.ID,
		items,
		basket.TotalPrice(),
		0,
	)
	rsp, err := shop.PayReady(ctx, req)
	if err != nil {
		fmt.Printf("支付准备失败: %v (%s)\n", err, httpclient.UserMessage(err))
		return
	}
	fmt.Printf("tid=%s\n请在浏览器打开: %s\n", rsp.TID, rsp.NextRedirectPCURL)
}
