package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	coreerrors "github.com/escape-ship/shop-desktop/core/errors"
)

// 固定的持久化文件名。会话与购物车使用互不相干的 key，
// 两个组件之间不会互相覆盖。
const (
	TokenFileName = "auth_tokens.json"
	CartFileName  = "shopping_cart.json"
)

var (
	// ErrRecordNotFound 标记存储中不存在对应记录。损坏的记录同样按不存在处理。
	ErrRecordNotFound = coreerrors.New(coreerrors.ErrCodeNotFound, "store: 未找到持久化记录")
)

// FileStore 以 JSON 文件形式保存单条记录，充当浏览器持久化存储的桌面端等价物。
// 写入先落到临时文件再原子重命名，崩溃不会留下半写状态。
type FileStore struct {
	dir string
}

// NewFileStore 创建 FileStore，目录不存在时自动创建。
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, coreerrors.New(coreerrors.ErrCodeInvalidArgument, "store: 存储目录不能为空")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, coreerrors.Wrap(coreerrors.ErrCodeStorage, "store: 创建存储目录失败", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir 返回存储目录。
func (s *FileStore) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}

func (s *FileStore) save(name string, v any) error {
	if s == nil {
		return coreerrors.New(coreerrors.ErrCodeInvalidConfig, "store: FileStore 未初始化")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeStorage, "store: 序列化记录失败", err)
	}
	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeStorage, "store: 创建临时文件失败", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return coreerrors.Wrap(coreerrors.ErrCodeStorage, "store: 写入临时文件失败", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return coreerrors.Wrap(coreerrors.ErrCodeStorage, "store: 关闭临时文件失败", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return coreerrors.Wrap(coreerrors.ErrCodeStorage, "store: 设置文件权限失败", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return coreerrors.Wrap(coreerrors.ErrCodeStorage, "store: 原子替换失败", err)
	}
	return nil
}

// load 读取失败时一律软降级：缺失、不可读、JSON 损坏均返回 ErrRecordNotFound。
func (s *FileStore) load(name string, v any) error {
	if s == nil {
		return ErrRecordNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return ErrRecordNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		return ErrRecordNotFound
	}
	return nil
}

func (s *FileStore) clear(name string) error {
	if s == nil {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return coreerrors.Wrap(coreerrors.ErrCodeStorage, "store: 删除记录失败", err)
	}
	return nil
}

// TokenFileStore 基于 FileStore 的 TokenStore 实现。
type TokenFileStore[T any] struct {
	fs   *FileStore
	name string
}

// NewTokenFileStore 创建令牌文件存储，name 为空时使用 TokenFileName。
func NewTokenFileStore[T any](fs *FileStore, name string) *TokenFileStore[T] {
	if name == "" {
		name = TokenFileName
	}
	return &TokenFileStore[T]{fs: fs, name: name}
}

// SaveTokens 覆盖写入令牌对。
func (s *TokenFileStore[T]) SaveTokens(tokens T) error {
	return s.fs.save(s.name, tokens)
}

// LoadTokens 读取令牌对，缺失或损坏返回 ErrRecordNotFound。
func (s *TokenFileStore[T]) LoadTokens() (T, error) {
	var v T
	if err := s.fs.load(s.name, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// ClearTokens 删除持久化令牌。
func (s *TokenFileStore[T]) ClearTokens() error {
	return s.fs.clear(s.name)
}

// CartFileStore 基于 FileStore 的 CartStore 实现。
type CartFileStore[T any] struct {
	fs   *FileStore
	name string
}

// NewCartFileStore 创建购物车文件存储，name 为空时使用 CartFileName。
func NewCartFileStore[T any](fs *FileStore, name string) *CartFileStore[T] {
	if name == "" {
		name = CartFileName
	}
	return &CartFileStore[T]{fs: fs, name: name}
}

// SaveCart 覆盖写入购物车状态。
func (s *CartFileStore[T]) SaveCart(cart T) error {
	return s.fs.save(s.name, cart)
}

// LoadCart 读取购物车状态，缺失或损坏返回 ErrRecordNotFound。
func (s *CartFileStore[T]) LoadCart() (T, error) {
	var v T
	if err := s.fs.load(s.name, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// ClearCart 删除持久化购物车。
func (s *CartFileStore[T]) ClearCart() error {
	return s.fs.clear(s.name)
}
