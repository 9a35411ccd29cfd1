package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/promptbox/internal/metrics"
	"github.com/hitoshi/promptbox/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// プロンプトカタログ
	CatalogService CatalogServiceInterface

	// お気に入り
	FavoriteService FavoriteServiceInterface

	// メトリクス（nil可）
	Metrics metrics.MetricsCollector
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → CORS → CSRF
//	→ SessionMiddleware → RateLimitMiddleware(GeneralMiddleware)
//
// 認証ルート（/auth/*）とカタログの読み取りルートは
// セッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	csrfConfig := middleware.CSRFConfig{
		CookieSecure: deps.AuthConfig.CookieSecure,
		CookieDomain: deps.AuthConfig.CookieDomain,
	}

	// 全ルートに効くミドルウェア
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default(), deps.Metrics))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewCSRFMiddleware(csrfConfig))

	// CSRFトークン取得（フロントエンドが起動時に取得する）
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(csrfConfig))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.Metrics)
	promptHandler := NewPromptHandler(deps.CatalogService, deps.Metrics)
	favoriteHandler := NewFavoriteHandler(deps.FavoriteService, deps.Metrics)

	// --- 認証不要のルート ---

	// 認証フロー
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/signin", authHandler.SignIn)
		r.Post("/signout", authHandler.SignOut)
		r.Get("/me", authHandler.Me)
	})

	// カタログ閲覧（未ログインでも利用可能）
	r.Route("/api/prompts", func(r chi.Router) {
		r.Get("/", promptHandler.ListPrompts)
		r.Get("/featured", promptHandler.ListFeaturedPrompts)
		r.Get("/search", promptHandler.SearchPrompts)
		r.Get("/{id}", promptHandler.GetPrompt)
	})
	r.Get("/api/tags", promptHandler.ListTags)
	r.Get("/api/users/{id}/prompts", promptHandler.ListUserPrompts)

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// プロンプト管理
		// POST /api/prompts - プロンプト作成（作成専用レート制限を追加）
		r.With(deps.RateLimiter.PromptCreationMiddleware()).Post("/api/prompts", promptHandler.CreatePrompt)
		r.Patch("/api/prompts/{id}", promptHandler.UpdatePrompt)
		r.Delete("/api/prompts/{id}", promptHandler.DeletePrompt)

		// お気に入り管理
		r.Route("/api/favorites", func(r chi.Router) {
			r.Get("/", favoriteHandler.List)

			r.Route("/{promptId}", func(r chi.Router) {
				r.Get("/", favoriteHandler.Check)
				r.Put("/", favoriteHandler.Add)
				r.Delete("/", favoriteHandler.Remove)
			})
		})

		// お気に入りプロンプトの一覧（プロンプト本体付き）
		r.Get("/api/users/me/favorites", promptHandler.ListUserFavorites)

		// プロフィール管理
		r.Put("/api/profile", authHandler.UpdateProfile)
	})

	return r
}
