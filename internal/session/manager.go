// Package session はセッションの発行・検証・破棄を提供する。
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hitoshi/promptbox/internal/model"
	"github.com/hitoshi/promptbox/internal/repository"
)

// DefaultTTL はセッション有効期間のデフォルト値（7日間）。
const DefaultTTL = 7 * 24 * time.Hour

// Manager はセッションのライフサイクルを管理する。
// 状態遷移は NoSession → (Issue) → Active → (期限切れ / Clear / 再検証失敗) → NoSession
// のみで、期限切れは次回のLoad時に遅延検出される。
type Manager struct {
	repo repository.SessionRepository
	ttl  time.Duration
}

// NewManager はManagerを生成する。
// ttlが0以下の場合はDefaultTTLを使用する。
func NewManager(repo repository.SessionRepository, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{repo: repo, ttl: ttl}
}

// Issue は指定ユーザーのセッションを発行し永続化する。
func (m *Manager) Issue(ctx context.Context, userID string) (*model.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		ID:        token,
		UserID:    userID,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}

	if err := m.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// Load はトークンからセッションを取得する。
// 存在しない場合と期限切れの場合はnilを返す。
func (m *Manager) Load(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, nil
	}
	session, err := m.repo.FindByID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// Validate はセッションの有効期限を検証する。
// 呼び出し側は加えて、参照先ユーザーの存在とis_activeを
// 確認しなければならない（認証サービスが行う）。
func (m *Manager) Validate(session *model.Session) bool {
	if session == nil {
		return false
	}
	return session.ExpiresAt.After(time.Now())
}

// Clear はセッションを無条件に破棄する。冪等で、存在しない場合もエラーにしない。
func (m *Manager) Clear(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.repo.DeleteByID(ctx, token); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// ClearUser は指定ユーザーの全セッションを破棄する。
func (m *Manager) ClearUser(ctx context.Context, userID string) error {
	if err := m.repo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear user sessions: %w", err)
	}
	return nil
}

// TTL はセッション有効期間を返す。
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// generateToken は暗号的に安全なセッショントークンを生成する。
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
