package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/promptbox/internal/metrics"
	"github.com/hitoshi/promptbox/internal/middleware"
	"github.com/hitoshi/promptbox/internal/model"
)

// FavoriteServiceInterface はお気に入りハンドラーが必要とするサービスインターフェース。
type FavoriteServiceInterface interface {
	Add(ctx context.Context, userID, promptID string) (*model.Favorite, error)
	Remove(ctx context.Context, userID, promptID string) error
	List(ctx context.Context, userID string) ([]*model.Favorite, error)
	IsFavorited(userID, promptID string) bool
}

// FavoriteHandler はお気に入り管理のHTTPハンドラー。
type FavoriteHandler struct {
	service FavoriteServiceInterface
	metrics metrics.MetricsCollector
}

// NewFavoriteHandler はFavoriteHandlerを生成する。
// collectorはnilでもよい（メトリクスを記録しない）。
func NewFavoriteHandler(service FavoriteServiceInterface, collector metrics.MetricsCollector) *FavoriteHandler {
	return &FavoriteHandler{
		service: service,
		metrics: collector,
	}
}

// favoriteResponse はお気に入り情報のAPIレスポンス。
type favoriteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PromptID  string    `json:"prompt_id"`
	CreatedAt time.Time `json:"created_at"`
}

// favoritedResponse はお気に入り登録状態のAPIレスポンス。
type favoritedResponse struct {
	PromptID  string `json:"prompt_id"`
	Favorited bool   `json:"favorited"`
}

// List は現在のユーザーのお気に入り一覧を返す。
// GET /api/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	favorites, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]favoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		results = append(results, favoriteResponse{
			ID:        f.ID,
			UserID:    f.UserID,
			PromptID:  f.PromptID,
			CreatedAt: f.CreatedAt,
		})
	}

	writeJSON(w, results)
}

// Add はプロンプトをお気に入りに登録する。
// PUT /api/favorites/{promptId}
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	promptID := chi.URLParam(r, "promptId")

	favorite, err := h.service.Add(r.Context(), userID, promptID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordFavoriteAdded()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(favoriteResponse{
		ID:        favorite.ID,
		UserID:    favorite.UserID,
		PromptID:  favorite.PromptID,
		CreatedAt: favorite.CreatedAt,
	})
}

// Remove はお気に入りを解除する。
// DELETE /api/favorites/{promptId}
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	promptID := chi.URLParam(r, "promptId")

	if err := h.service.Remove(r.Context(), userID, promptID); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordFavoriteRemoved()
	}

	w.WriteHeader(http.StatusNoContent)
}

// Check は指定プロンプトのお気に入り登録状態を返す。
// キャッシュのみを参照するためDBアクセスは発生しない。
// GET /api/favorites/{promptId}
func (h *FavoriteHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	promptID := chi.URLParam(r, "promptId")

	writeJSON(w, favoritedResponse{
		PromptID:  promptID,
		Favorited: h.service.IsFavorited(userID, promptID),
	})
}
