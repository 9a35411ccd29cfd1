package favorite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/promptbox/internal/model"
	"github.com/hitoshi/promptbox/internal/repository"
)

// mockFavoriteRepo はFavoriteRepositoryのモック実装。
type mockFavoriteRepo struct {
	createFunc                  func(ctx context.Context, favorite *model.Favorite) error
	deleteByUserAndPromptFunc   func(ctx context.Context, userID, promptID string) error
	listByUserIDFunc            func(ctx context.Context, userID string) ([]*model.Favorite, error)
	listByUserIDWithPromptsFunc func(ctx context.Context, userID string) ([]repository.FavoriteWithPrompt, error)
}

func (m *mockFavoriteRepo) Create(ctx context.Context, favorite *model.Favorite) error {
	return m.createFunc(ctx, favorite)
}

func (m *mockFavoriteRepo) DeleteByUserAndPrompt(ctx context.Context, userID, promptID string) error {
	return m.deleteByUserAndPromptFunc(ctx, userID, promptID)
}

func (m *mockFavoriteRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Favorite, error) {
	return m.listByUserIDFunc(ctx, userID)
}

func (m *mockFavoriteRepo) ListByUserIDWithPrompts(ctx context.Context, userID string) ([]repository.FavoriteWithPrompt, error) {
	return m.listByUserIDWithPromptsFunc(ctx, userID)
}

var _ repository.FavoriteRepository = (*mockFavoriteRepo)(nil)

func TestSync_OnSignInLoadsCache(t *testing.T) {
	repo := &mockFavoriteRepo{
		listByUserIDFunc: func(ctx context.Context, userID string) ([]*model.Favorite, error) {
			return []*model.Favorite{
				{ID: "fav-1", UserID: userID, PromptID: "prompt-1"},
				{ID: "fav-2", UserID: userID, PromptID: "prompt-2"},
			}, nil
		},
	}
	sync := NewSync(repo)

	if err := sync.OnSignIn(context.Background(), "user-1"); err != nil {
		t.Fatalf("OnSignIn returned error: %v", err)
	}

	if !sync.IsFavorited("user-1", "prompt-1") {
		t.Error("IsFavorited(prompt-1) = false, want true")
	}
	if !sync.IsFavorited("user-1", "prompt-2") {
		t.Error("IsFavorited(prompt-2) = false, want true")
	}
	if sync.IsFavorited("user-1", "prompt-3") {
		t.Error("IsFavorited(prompt-3) = true, want false")
	}
}

func TestSync_IsFavoritedWithoutSignInReturnsFalse(t *testing.T) {
	sync := NewSync(&mockFavoriteRepo{})

	if sync.IsFavorited("unknown-user", "prompt-1") {
		t.Error("IsFavorited = true for user without cache, want false")
	}
}

func TestSync_OnSignOutClearsCache(t *testing.T) {
	repo := &mockFavoriteRepo{
		listByUserIDFunc: func(ctx context.Context, userID string) ([]*model.Favorite, error) {
			return []*model.Favorite{{ID: "fav-1", UserID: userID, PromptID: "prompt-1"}}, nil
		},
	}
	sync := NewSync(repo)

	if err := sync.OnSignIn(context.Background(), "user-1"); err != nil {
		t.Fatalf("OnSignIn returned error: %v", err)
	}
	sync.OnSignOut("user-1")

	if sync.IsFavorited("user-1", "prompt-1") {
		t.Error("IsFavorited = true after sign-out, want false")
	}
}

func TestSync_AddUpdatesCacheAfterRemoteSuccess(t *testing.T) {
	repo := &mockFavoriteRepo{
		listByUserIDFunc: func(ctx context.Context, userID string) ([]*model.Favorite, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, favorite *model.Favorite) error {
			return nil
		},
	}
	sync := NewSync(repo)

	if err := sync.OnSignIn(context.Background(), "user-1"); err != nil {
		t.Fatalf("OnSignIn returned error: %v", err)
	}

	favorite, err := sync.Add(context.Background(), "user-1", "prompt-1")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if favorite.ID == "" {
		t.Error("favorite ID was not assigned")
	}
	if favorite.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
	if !sync.IsFavorited("user-1", "prompt-1") {
		t.Error("cache was not updated after successful add")
	}
}

func TestSync_AddFailureDoesNotUpdateCache(t *testing.T) {
	repo := &mockFavoriteRepo{
		listByUserIDFunc: func(ctx context.Context, userID string) ([]*model.Favorite, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, favorite *model.Favorite) error {
			return errors.New("db down")
		},
	}
	sync := NewSync(repo)

	if err := sync.OnSignIn(context.Background(), "user-1"); err != nil {
		t.Fatalf("OnSignIn returned error: %v", err)
	}

	if _, err := sync.Add(context.Background(), "user-1", "prompt-1"); err == nil {
		t.Fatal("expected error when create fails, got nil")
	}
	if sync.IsFavorited("user-1", "prompt-1") {
		t.Error("cache was updated despite remote failure")
	}
}

func TestSync_AddDuplicateReturnsAlreadyFavorited(t *testing.T) {
	repo := &mockFavoriteRepo{
		createFunc: func(ctx context.Context, favorite *model.Favorite) error {
			return repository.ErrDuplicateFavorite
		},
	}
	sync := NewSync(repo)

	_, err := sync.Add(context.Background(), "user-1", "prompt-1")
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.ErrCodeAlreadyFavorited {
		t.Errorf("error = %v, want ALREADY_FAVORITED", err)
	}
}

func TestSync_Remove(t *testing.T) {
	repo := &mockFavoriteRepo{
		listByUserIDFunc: func(ctx context.Context, userID string) ([]*model.Favorite, error) {
			return []*model.Favorite{{ID: "fav-1", UserID: userID, PromptID: "prompt-1"}}, nil
		},
		deleteByUserAndPromptFunc: func(ctx context.Context, userID, promptID string) error {
			return nil
		},
	}
	sync := NewSync(repo)

	if err := sync.OnSignIn(context.Background(), "user-1"); err != nil {
		t.Fatalf("OnSignIn returned error: %v", err)
	}

	if err := sync.Remove(context.Background(), "user-1", "prompt-1"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if sync.IsFavorited("user-1", "prompt-1") {
		t.Error("cache still contains removed favorite")
	}
}

func TestSync_RemoveNotFound(t *testing.T) {
	repo := &mockFavoriteRepo{
		deleteByUserAndPromptFunc: func(ctx context.Context, userID, promptID string) error {
			return repository.ErrFavoriteNotFound
		},
	}
	sync := NewSync(repo)

	err := sync.Remove(context.Background(), "user-1", "prompt-1")
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.ErrCodeFavoriteNotFound {
		t.Errorf("error = %v, want FAVORITE_NOT_FOUND", err)
	}
}

func TestSync_List(t *testing.T) {
	now := time.Now()
	repo := &mockFavoriteRepo{
		listByUserIDFunc: func(ctx context.Context, userID string) ([]*model.Favorite, error) {
			return []*model.Favorite{
				{ID: "fav-1", UserID: userID, PromptID: "prompt-1", CreatedAt: now},
			}, nil
		},
	}
	sync := NewSync(repo)

	favorites, err := sync.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(favorites) != 1 || favorites[0].PromptID != "prompt-1" {
		t.Errorf("favorites = %v, want single prompt-1 entry", favorites)
	}

	// Listはキャッシュも最新化する
	if !sync.IsFavorited("user-1", "prompt-1") {
		t.Error("IsFavorited = false after List, want true")
	}
}
