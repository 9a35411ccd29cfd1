package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/promptbox/internal/metrics"
	"github.com/hitoshi/promptbox/internal/middleware"
	"github.com/hitoshi/promptbox/internal/model"
	"github.com/hitoshi/promptbox/internal/prompt"
	"github.com/hitoshi/promptbox/internal/repository"
)

// CatalogServiceInterface はプロンプトハンドラーが必要とするサービスインターフェース。
type CatalogServiceInterface interface {
	FetchPrompts(ctx context.Context, opts prompt.ListOptions) ([]*prompt.PromptWithTags, error)
	FetchFeaturedPrompts(ctx context.Context, limit int) ([]*prompt.PromptWithTags, error)
	FetchFeaturedPromptsByCategory(ctx context.Context, category model.Category, limit int) ([]*prompt.PromptWithTags, error)
	SearchPrompts(ctx context.Context, opts prompt.SearchOptions) ([]*prompt.PromptWithTags, error)
	FetchTags(ctx context.Context) ([]*model.Tag, error)
	FetchPromptByID(ctx context.Context, id string) (*prompt.PromptWithTags, error)
	FetchUserPrompts(ctx context.Context, authorID string) ([]*prompt.PromptWithTags, error)
	FetchUserFavorites(ctx context.Context, userID string) ([]*prompt.PromptWithTags, error)
	CreatePrompt(ctx context.Context, authorID string, input prompt.CreateInput) (*prompt.PromptWithTags, error)
	UpdatePrompt(ctx context.Context, userID, promptID string, update repository.PromptUpdate, tags *[]string) (*prompt.PromptWithTags, error)
	DeletePrompt(ctx context.Context, userID, promptID string) error
}

// PromptHandler はプロンプトカタログのHTTPハンドラー。
type PromptHandler struct {
	service CatalogServiceInterface
	metrics metrics.MetricsCollector
}

// NewPromptHandler はPromptHandlerを生成する。
// collectorはnilでもよい（メトリクスを記録しない）。
func NewPromptHandler(service CatalogServiceInterface, collector metrics.MetricsCollector) *PromptHandler {
	return &PromptHandler{
		service: service,
		metrics: collector,
	}
}

// createPromptRequest はプロンプト作成リクエストのボディ。
type createPromptRequest struct {
	Title             string   `json:"title"`
	Content           string   `json:"content"`
	Description       string   `json:"description,omitempty"`
	Category          string   `json:"category"`
	IsPublic          bool     `json:"is_public"`
	UsageInstructions string   `json:"usage_instructions,omitempty"`
	ExampleOutput     string   `json:"example_output,omitempty"`
	Tags              []string `json:"tags,omitempty"`
}

// updatePromptRequest はプロンプト更新リクエストのボディ。
// 省略されたフィールドは変更されない。tagsは省略時は変更せず、
// 空配列を含む指定時は既存タグを付け替える。
type updatePromptRequest struct {
	Title             *string   `json:"title,omitempty"`
	Content           *string   `json:"content,omitempty"`
	Description       *string   `json:"description,omitempty"`
	Category          *string   `json:"category,omitempty"`
	IsPublic          *bool     `json:"is_public,omitempty"`
	IsFeatured        *bool     `json:"is_featured,omitempty"`
	UsageInstructions *string   `json:"usage_instructions,omitempty"`
	ExampleOutput     *string   `json:"example_output,omitempty"`
	Tags              *[]string `json:"tags,omitempty"`
}

// parseLimitParam はlimitクエリパラメータを解析する。
// 未指定の場合は0（無制限）を返し、0以上の整数以外はエラーを返す。
func parseLimitParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid limit parameter: %q", raw)
	}
	return parsed, nil
}

func writeInvalidLimit(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "limitには0以上の整数を指定してください。",
		Category: "validation",
		Action:   "クエリパラメータを確認してください。",
	})
}

// ListPrompts は公開済みプロンプトの一覧を返す。
// GET /api/prompts?category=xxx&search=xxx&limit=20
func (h *PromptHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimitParam(q.Get("limit"))
	if err != nil {
		writeInvalidLimit(w)
		return
	}

	prompts, err := h.service.FetchPrompts(r.Context(), prompt.ListOptions{
		Category: model.Category(q.Get("category")),
		Search:   q.Get("search"),
		Limit:    limit,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, newPromptListResponse(prompts))
}

// ListFeaturedPrompts は注目プロンプトの一覧を返す。
// GET /api/prompts/featured?category=xxx&limit=10
func (h *PromptHandler) ListFeaturedPrompts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimitParam(q.Get("limit"))
	if err != nil {
		writeInvalidLimit(w)
		return
	}

	category := q.Get("category")

	var prompts []*prompt.PromptWithTags
	if category == "" {
		prompts, err = h.service.FetchFeaturedPrompts(r.Context(), limit)
	} else {
		prompts, err = h.service.FetchFeaturedPromptsByCategory(r.Context(), model.Category(category), limit)
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, newPromptListResponse(prompts))
}

// SearchPrompts はキーワードでプロンプトを検索する。
// GET /api/prompts/search?q=xxx&category=xxx&sort=xxx&order=asc&limit=20
func (h *PromptHandler) SearchPrompts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimitParam(q.Get("limit"))
	if err != nil {
		writeInvalidLimit(w)
		return
	}

	prompts, err := h.service.SearchPrompts(r.Context(), prompt.SearchOptions{
		Query:    q.Get("q"),
		Category: model.Category(q.Get("category")),
		SortBy:   q.Get("sort"),
		SortAsc:  q.Get("order") == "asc",
		Limit:    limit,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, newPromptListResponse(prompts))
}

// ListTags は全タグの一覧を名前の昇順で返す。
// GET /api/tags
func (h *PromptHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.FetchTags(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, newTagListResponse(tags))
}

// GetPrompt は指定IDのプロンプトを返す。
// GET /api/prompts/{id}
func (h *PromptHandler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	promptID := chi.URLParam(r, "id")

	p, err := h.service.FetchPromptByID(r.Context(), promptID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, newPromptResponse(p))
}

// CreatePrompt はプロンプトを作成する。
// POST /api/prompts
func (h *PromptHandler) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	p, err := h.service.CreatePrompt(r.Context(), userID, prompt.CreateInput{
		Title:             req.Title,
		Content:           req.Content,
		Description:       req.Description,
		Category:          model.Category(req.Category),
		IsPublic:          req.IsPublic,
		UsageInstructions: req.UsageInstructions,
		ExampleOutput:     req.ExampleOutput,
		Tags:              req.Tags,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPromptCreated(string(p.Category))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(newPromptResponse(p))
}

// UpdatePrompt はプロンプトを部分更新する。作成者本人のみ更新できる。
// PATCH /api/prompts/{id}
func (h *PromptHandler) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	promptID := chi.URLParam(r, "id")

	var req updatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	update := repository.PromptUpdate{
		Title:             req.Title,
		Content:           req.Content,
		Description:       req.Description,
		IsPublic:          req.IsPublic,
		IsFeatured:        req.IsFeatured,
		UsageInstructions: req.UsageInstructions,
		ExampleOutput:     req.ExampleOutput,
	}
	if req.Category != nil {
		category := model.Category(*req.Category)
		update.Category = &category
	}

	p, err := h.service.UpdatePrompt(r.Context(), userID, promptID, update, req.Tags)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPromptUpdated()
	}

	writeJSON(w, newPromptResponse(p))
}

// DeletePrompt はプロンプトを削除する。作成者本人のみ削除できる。
// DELETE /api/prompts/{id}
func (h *PromptHandler) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	promptID := chi.URLParam(r, "id")

	if err := h.service.DeletePrompt(r.Context(), userID, promptID); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPromptDeleted()
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListUserPrompts は指定ユーザーが作成したプロンプト一覧を返す。
// GET /api/users/{id}/prompts
func (h *PromptHandler) ListUserPrompts(w http.ResponseWriter, r *http.Request) {
	authorID := chi.URLParam(r, "id")

	prompts, err := h.service.FetchUserPrompts(r.Context(), authorID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, newPromptListResponse(prompts))
}

// ListUserFavorites は現在のユーザーのお気に入りプロンプト一覧を返す。
// 削除済みプロンプトを指すお気に入りは除外される。
// GET /api/users/me/favorites
func (h *PromptHandler) ListUserFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	prompts, err := h.service.FetchUserFavorites(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, newPromptListResponse(prompts))
}
