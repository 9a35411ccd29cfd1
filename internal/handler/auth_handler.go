package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/promptbox/internal/auth"
	"github.com/hitoshi/promptbox/internal/metrics"
	"github.com/hitoshi/promptbox/internal/middleware"
	"github.com/hitoshi/promptbox/internal/model"
	"github.com/hitoshi/promptbox/internal/repository"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	SignUp(ctx context.Context, phone, password, username, fullName string) (*auth.Result, error)
	SignIn(ctx context.Context, phone, password string) (*auth.Result, error)
	SignOut(ctx context.Context, token string)
	CurrentUser(ctx context.Context, token string) (*model.User, *model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update repository.ProfileUpdate) (*model.Profile, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
	metrics metrics.MetricsCollector
}

// NewAuthHandler はAuthHandlerを生成する。
// collectorはnilでもよい（メトリクスを記録しない）。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, collector metrics.MetricsCollector) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
		metrics: collector,
	}
}

// signUpRequest はユーザー登録リクエストのボディ。
type signUpRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// signInRequest はサインインリクエストのボディ。
type signInRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// authResponse は認証成功時のレスポンス。
type authResponse struct {
	User    userResponse     `json:"user"`
	Profile *profileResponse `json:"profile"`
}

// profileUpdateRequest はプロフィール更新リクエストのボディ。
// 省略されたフィールドは変更されない。
type profileUpdateRequest struct {
	Username  *string `json:"username,omitempty"`
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// SignUp は新規ユーザーを登録し、セッションCookieを発行する。
// POST /auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	result, err := h.service.SignUp(r.Context(), req.Phone, req.Password, req.Username, req.FullName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordSignup()
	}

	h.setSessionCookie(w, result.Session.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(authResponse{
		User:    newUserResponse(result.User),
		Profile: newProfileResponse(result.Profile),
	})
}

// SignIn は電話番号とパスワードで認証し、セッションCookieを発行する。
// POST /auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	result, err := h.service.SignIn(r.Context(), req.Phone, req.Password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordSigninFailure()
		}
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordSigninSuccess()
	}

	h.setSessionCookie(w, result.Session.ID)
	writeJSON(w, authResponse{
		User:    newUserResponse(result.User),
		Profile: newProfileResponse(result.Profile),
	})
}

// SignOut はセッションを破棄し、セッションCookieをクリアする。
// サーバー側の削除が失敗してもCookieは常にクリアされ、204を返す。
// POST /auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		h.service.SignOut(r.Context(), cookie.Value)
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me は現在のログインユーザーとプロフィールを返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		writeUnauthorized(w)
		return
	}

	user, profile, err := h.service.CurrentUser(r.Context(), cookie.Value)
	if err != nil {
		if apiErr, ok := model.AsAPIError(err); ok && apiErr.Code == model.ErrCodeUnauthorized {
			// 失効済みセッションのCookieは破棄させる
			h.clearSessionCookie(w)
		}
		handleServiceError(w, err)
		return
	}

	writeJSON(w, authResponse{
		User:    newUserResponse(user),
		Profile: newProfileResponse(profile),
	})
}

// UpdateProfile は現在のユーザーのプロフィールを部分更新する。
// PUT /api/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, repository.ProfileUpdate{
		Username:  req.Username,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, newProfileResponse(profile))
}

// setSessionCookie はセッショントークンをHTTP Only Cookieに設定する。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie はセッションCookieを削除する。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
