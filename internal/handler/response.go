// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/promptbox/internal/middleware"
	"github.com/hitoshi/promptbox/internal/model"
	"github.com/hitoshi/promptbox/internal/prompt"
)

// writeAPIErrorResponse は統一エラーフォーマットでレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// writeUnauthorized は401レスポンスを書き込む。
func writeUnauthorized(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
}

// writeInvalidRequestBody はリクエストボディ解析失敗の400レスポンスを書き込む。
func writeInvalidRequestBody(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewRemoteError())
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidPhone, model.ErrCodePasswordTooShort, model.ErrCodeInvalidCategory:
		return http.StatusBadRequest
	case model.ErrCodePhoneTaken, model.ErrCodeUsernameTaken, model.ErrCodeAlreadyFavorited:
		return http.StatusConflict
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorized, model.ErrCodeUserNotFound:
		return http.StatusUnauthorized
	case model.ErrCodePromptNotFound, model.ErrCodeFavoriteNotFound:
		return http.StatusNotFound
	case model.ErrCodeRemoteError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// userResponse はユーザー情報のAPIレスポンス。
// パスワードハッシュは含めない。
type userResponse struct {
	ID          string     `json:"id"`
	Phone       string     `json:"phone"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Phone:       u.Phone,
		Username:    u.Username,
		FullName:    u.FullName,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// profileResponse はプロフィール情報のAPIレスポンス。
type profileResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	Phone     string    `json:"phone"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newProfileResponse(p *model.Profile) *profileResponse {
	if p == nil {
		return nil
	}
	return &profileResponse{
		ID:        p.ID,
		Username:  p.Username,
		FullName:  p.FullName,
		Phone:     p.Phone,
		AvatarURL: p.AvatarURL,
		Bio:       p.Bio,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// tagResponse はタグ情報のAPIレスポンス。
type tagResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func newTagListResponse(tags []*model.Tag) []tagResponse {
	results := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		results = append(results, tagResponse{ID: t.ID, Name: t.Name, Color: t.Color})
	}
	return results
}

// promptResponse はプロンプト情報のAPIレスポンス。
type promptResponse struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Content           string        `json:"content"`
	Description       string        `json:"description,omitempty"`
	Category          string        `json:"category"`
	AuthorID          string        `json:"author_id"`
	IsPublic          bool          `json:"is_public"`
	IsFeatured        bool          `json:"is_featured"`
	UsageCount        int           `json:"usage_count"`
	LikeCount         int           `json:"like_count"`
	UsageInstructions string        `json:"usage_instructions,omitempty"`
	ExampleOutput     string        `json:"example_output,omitempty"`
	Tags              []tagResponse `json:"tags"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func newPromptResponse(p *prompt.PromptWithTags) promptResponse {
	tags := make([]tagResponse, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, tagResponse{ID: t.ID, Name: t.Name, Color: t.Color})
	}
	return promptResponse{
		ID:                p.ID,
		Title:             p.Title,
		Content:           p.Content,
		Description:       p.Description,
		Category:          string(p.Category),
		AuthorID:          p.AuthorID,
		IsPublic:          p.IsPublic,
		IsFeatured:        p.IsFeatured,
		UsageCount:        p.UsageCount,
		LikeCount:         p.LikeCount,
		UsageInstructions: p.UsageInstructions,
		ExampleOutput:     p.ExampleOutput,
		Tags:              tags,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func newPromptListResponse(prompts []*prompt.PromptWithTags) []promptResponse {
	results := make([]promptResponse, 0, len(prompts))
	for _, p := range prompts {
		results = append(results, newPromptResponse(p))
	}
	return results
}
