// 购物车持久化手工测试入口：验证变更落盘与重载恢复。
package main

import (
	"fmt"
	"os"

	"github.com/escape-ship/shop-desktop/core/cart"
	"github.com/escape-ship/shop-desktop/core/store"
)

func main() {
	dir, err := os.MkdirTemp("", "carttest-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建临时目录失败: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dir)

	fs, err := store.NewFileStore(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化存储失败: %v\n", err)
		os.Exit(1)
	}
	persist := store.NewCartFileStore[cart.State](fs, store.CartFileName)

	basket := cart.NewStore(persist)
	basket.AddItem(cart.Item{ID: "p-1", Name: "머그컵", Price: 12000})
	basket.AddItem(cart.Item{ID: "p-1", Name: "머그컵", Price: 12000, Quantity: 2})
	basket.AddItem(cart.Item{ID: "p-2", Name: "텀블러", Price: 25000})
	basket.UpdateQuantity("p-2", 3)
	fmt.Printf("变更后: %d 件 / %d원\n", basket.TotalItems(), basket.TotalPrice())

	// 模拟重启：从同一文件重新装载
	reloaded := cart.NewStore(persist)
	fmt.Printf("重载后: %d 件 / %d원\n", reloaded.TotalItems(), reloaded.TotalPrice())
	for _, item := range reloaded.Items() {
		fmt.Printf("  %s x%d\n", item.Name, item.Quantity)
	}

	reloaded.Clear()
	emptied := cart.NewStore(persist)
	fmt.Printf("清空并重载后: %d 件\n", emptied.TotalItems())
}
