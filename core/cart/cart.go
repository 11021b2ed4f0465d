// Package cart 维护下单前的本地购物车状态。
// 购物车在结算前不经过后端校验，是纯客户端持有的状态：
// 每次变更全量重算合计并即时落盘，重载后状态不丢。
package cart

import (
	"sync"

	"github.com/escape-ship/shop-desktop/core/httpclient"
	"github.com/escape-ship/shop-desktop/core/store"
)

// Item 购物车中的单个商品行。价格以最小货币单位（韩元）表示。
type Item struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Price    int64          `json:"price"`
	Quantity int            `json:"quantity"`
	Image    string         `json:"image,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

// State 购物车的可持久化快照。totalPrice/totalItems 始终是
// items 的精确函数，持久化只是缓存，加载时会重新计算。
type State struct {
	Items      []Item `json:"items"`
	TotalPrice int64  `json:"totalPrice"`
	TotalItems int    `json:"totalItems"`
}

// Store 购物车状态容器。同一 ID 的商品至多一行，重复加入合并数量。
// 所有操作都是全函数：删除不存在的商品、更新不存在的数量都按 no-op 处理，
// 调用方永远不会收到错误。落盘失败只记录日志（本地存储失败用户无从补救）。
type Store struct {
	mu         sync.Mutex
	items      []Item
	totalPrice int64
	totalItems int
	persist    store.CartStore[State]
	logger     httpclient.Logger
}

// StoreOption 自定义购物车。
type StoreOption func(*Store)

// WithLogger 注入日志。
func WithLogger(logger httpclient.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore 创建购物车并从持久化存储恢复。
// 记录缺失或损坏时从空车开始；合计一律按恢复出的 items 重算，
// 不信任持久化中的缓存值。
func NewStore(persist store.CartStore[State], opts ...StoreOption) *Store {
	s := &Store{
		persist: persist,
		logger:  httpclient.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if persist != nil {
		if state, err := persist.LoadCart(); err == nil {
			s.items = append(s.items, state.Items...)
		}
	}
	s.recomputeLocked()
	return s
}

// AddItem 加入商品。同一 ID 已存在时按数量合并，数量缺省为 1。
// 本层不设数量上限，由结算流程校验。
func (s *Store) AddItem(item Item) {
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = qty
		s.items = append(s.items, item)
	}
	s.recomputeLocked()
	s.persistLocked()
}

// RemoveItem 删除商品行，目标不存在时按 no-op 处理。
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.recomputeLocked()
	s.persistLocked()
}

// UpdateQuantity 覆盖商品数量。quantity <= 0 等价于删除；
// 目标不存在时按 no-op 处理。
func (s *Store) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(id)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.recomputeLocked()
	s.persistLocked()
}

// Clear 清空购物车，下单成功后调用。
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.recomputeLocked()
	s.persistLocked()
}

// ItemQuantity 返回指定商品的数量，不存在返回 0。
func (s *Store) ItemQuantity(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item.Quantity
		}
	}
	return 0
}

// Items 返回商品行的拷贝，保持加入顺序。
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItemsLocked()
}

// TotalPrice 返回当前合计金额。
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPrice
}

// TotalItems 返回当前商品总数量。
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalItems
}

// Snapshot 返回当前状态的快照。
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Items:      s.copyItemsLocked(),
		TotalPrice: s.totalPrice,
		TotalItems: s.totalItems,
	}
}

// recomputeLocked 从 items 全量重算合计，杜绝增量更新漂移。
func (s *Store) recomputeLocked() {
	var price int64
	var count int
	for _, item := range s.items {
		price += item.Price * int64(item.Quantity)
		count += item.Quantity
	}
	s.totalPrice = price
	s.totalItems = count
}

// persistLocked 写穿到持久化存储，每次变更立即落盘。
func (s *Store) persistLocked() {
	if s.persist == nil {
		return
	}
	state := State{
		Items:      s.copyItemsLocked(),
		TotalPrice: s.totalPrice,
		TotalItems: s.totalItems,
	}
	if err := s.persist.SaveCart(state); err != nil {
		s.logger.Errorf("cart: 持久化购物车失败: %v", err)
	}
}

// copyItemsLocked 返回商品行的拷贝。Options 是映射，必须逐项克隆，
// 浅拷贝会让调用方持有内部状态的别名。
func (s *Store) copyItemsLocked() []Item {
	if len(s.items) == 0 {
		return []Item{}
	}
	cp := make([]Item, len(s.items))
	copy(cp, s.items)
	for i := range cp {
		if len(cp[i].Options) == 0 {
			continue
		}
		options := make(map[string]any, len(cp[i].Options))
		for k, v := range cp[i].Options {
			options[k] = v
		}
		cp[i].Options = options
	}
	return cp
}
