// Package credential はパスワードのハッシュ化と検証を提供する。
package credential

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost はbcryptのデフォルトコスト。
// 総当たり攻撃のコストを高めるため、意図的に重い値を採用している。
const DefaultCost = 12

// Store はbcryptによるパスワードのハッシュ化と検証を提供する。
// ソルトはbcryptがハッシュ値に埋め込むため、呼び出し側での管理は不要。
type Store struct {
	cost int
}

// NewStore はStoreを生成する。
// costが不正な範囲の場合はDefaultCostを使用する。
func NewStore(cost int) *Store {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Store{cost: cost}
}

// Hash はパスワードをソルト付きでハッシュ化する。
func (s *Store) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify はパスワードとハッシュ値を照合する。
// 不一致の場合もエラーは返さず、falseのみを返す。
func (s *Store) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
