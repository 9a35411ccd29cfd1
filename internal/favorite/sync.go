// Package favorite はお気に入りの登録・解除と、
// サインイン中ユーザーのお気に入りIDキャッシュの同期を提供する。
package favorite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/promptbox/internal/model"
	"github.com/hitoshi/promptbox/internal/repository"
)

// Sync はお気に入りの永続化とインメモリキャッシュの同期を行う。
//
// キャッシュはサインイン時にDBから読み込まれ、以後の登録・解除で
// 差分更新される。キャッシュの更新は必ずDB操作の成功後に行うため、
// DB障害時にキャッシュだけが先行することはない。
// IsFavoritedはキャッシュのみを参照し、DBアクセスを発生させない。
type Sync struct {
	favorites repository.FavoriteRepository

	mu    sync.RWMutex
	cache map[string]map[string]struct{} // userID -> promptIDの集合
}

// NewSync はSyncを生成する。
func NewSync(favorites repository.FavoriteRepository) *Sync {
	return &Sync{
		favorites: favorites,
		cache:     make(map[string]map[string]struct{}),
	}
}

// OnSignIn はサインインしたユーザーのお気に入りキャッシュをDBから構築する。
// auth.IdentityListenerの実装。
func (s *Sync) OnSignIn(ctx context.Context, userID string) error {
	favorites, err := s.favorites.ListByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	ids := make(map[string]struct{}, len(favorites))
	for _, fav := range favorites {
		ids[fav.PromptID] = struct{}{}
	}

	s.mu.Lock()
	s.cache[userID] = ids
	s.mu.Unlock()

	slog.Info("favorites cache loaded",
		slog.String("user_id", userID),
		slog.Int("count", len(ids)),
	)
	return nil
}

// OnSignOut はサインアウトしたユーザーのキャッシュを破棄する。
// auth.IdentityListenerの実装。
func (s *Sync) OnSignOut(userID string) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.mu.Unlock()
}

// IsFavorited は指定プロンプトがお気に入り登録済みかをキャッシュから返す。
// キャッシュ未構築（未サインインを含む）の場合は常にfalse。
func (s *Sync) IsFavorited(userID, promptID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, ok := s.cache[userID]
	if !ok {
		return false
	}
	_, favorited := ids[promptID]
	return favorited
}

// Add はプロンプトをお気に入りに登録する。
// 既に登録済みの場合はALREADY_FAVORITEDエラーを返す。
// 重複検出はDBの一意制約に委ね、キャッシュでの事前判定は行わない。
func (s *Sync) Add(ctx context.Context, userID, promptID string) (*model.Favorite, error) {
	favorite := &model.Favorite{
		ID:        uuid.New().String(),
		UserID:    userID,
		PromptID:  promptID,
		CreatedAt: time.Now(),
	}

	if err := s.favorites.Create(ctx, favorite); err != nil {
		if errors.Is(err, repository.ErrDuplicateFavorite) {
			return nil, model.NewAlreadyFavoritedError()
		}
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	s.mu.Lock()
	if ids, ok := s.cache[userID]; ok {
		ids[promptID] = struct{}{}
	}
	s.mu.Unlock()

	return favorite, nil
}

// Remove はお気に入りを解除する。
// 登録されていない場合はFAVORITE_NOT_FOUNDエラーを返す。
func (s *Sync) Remove(ctx context.Context, userID, promptID string) error {
	if err := s.favorites.DeleteByUserAndPrompt(ctx, userID, promptID); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return model.NewFavoriteNotFoundError(promptID)
		}
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	s.mu.Lock()
	if ids, ok := s.cache[userID]; ok {
		delete(ids, promptID)
	}
	s.mu.Unlock()

	return nil
}

// List はユーザーのお気に入り一覧をDBから返し、キャッシュを最新化する。
func (s *Sync) List(ctx context.Context, userID string) ([]*model.Favorite, error) {
	favorites, err := s.favorites.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	ids := make(map[string]struct{}, len(favorites))
	for _, fav := range favorites {
		ids[fav.PromptID] = struct{}{}
	}
	s.mu.Lock()
	s.cache[userID] = ids
	s.mu.Unlock()

	return favorites, nil
}
