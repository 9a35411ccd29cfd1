// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやワーカーから利用する。
type MetricsCollector interface {
	RecordSignup()
	RecordSigninSuccess()
	RecordSigninFailure()
	RecordPromptCreated(category string)
	RecordPromptUpdated()
	RecordPromptDeleted()
	RecordFavoriteAdded()
	RecordFavoriteRemoved()
	RecordSessionsCleaned(count int64)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	signups         prometheus.Counter
	signinSuccess   prometheus.Counter
	signinFail      prometheus.Counter
	promptsCreated  *prometheus.CounterVec
	promptsUpdated  prometheus.Counter
	promptsDeleted  prometheus.Counter
	favoritesAdded  prometheus.Counter
	favoritesRemove prometheus.Counter
	sessionsCleaned prometheus.Counter
	httpStatus      *prometheus.CounterVec
	requestLatency  prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "promptbox_signups_total",
			Help: "ユーザー登録成功の合計数",
		}),
		signinSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "promptbox_signin_success_total",
			Help: "サインイン成功の合計数",
		}),
		signinFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "promptbox_signin_fail_total",
			Help: "サインイン失敗の合計数",
		}),
		promptsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promptbox_prompts_created_total",
			Help: "作成されたプロンプトのカテゴリ別合計数",
		}, []string{"category"}),
		promptsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "promptbox_prompts_updated_total",
			Help: "更新されたプロンプトの合計数",
		}),
		promptsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "promptbox_prompts_deleted_total",
			Help: "削除されたプロンプトの合計数",
		}),
		favoritesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "promptbox_favorites_added_total",
			Help: "お気に入り登録の合計数",
		}),
		favoritesRemove: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "promptbox_favorites_removed_total",
			Help: "お気に入り解除の合計数",
		}),
		sessionsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "promptbox_sessions_cleaned_total",
			Help: "クリーンアップで削除された期限切れセッションの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promptbox_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "promptbox_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.signups,
		c.signinSuccess,
		c.signinFail,
		c.promptsCreated,
		c.promptsUpdated,
		c.promptsDeleted,
		c.favoritesAdded,
		c.favoritesRemove,
		c.sessionsCleaned,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordSignup はユーザー登録成功を記録する。
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordSigninSuccess はサインイン成功を記録する。
func (c *Collector) RecordSigninSuccess() {
	c.signinSuccess.Inc()
}

// RecordSigninFailure はサインイン失敗を記録する。
func (c *Collector) RecordSigninFailure() {
	c.signinFail.Inc()
}

// RecordPromptCreated はプロンプト作成を記録する。
func (c *Collector) RecordPromptCreated(category string) {
	c.promptsCreated.WithLabelValues(category).Inc()
}

// RecordPromptUpdated はプロンプト更新を記録する。
func (c *Collector) RecordPromptUpdated() {
	c.promptsUpdated.Inc()
}

// RecordPromptDeleted はプロンプト削除を記録する。
func (c *Collector) RecordPromptDeleted() {
	c.promptsDeleted.Inc()
}

// RecordFavoriteAdded はお気に入り登録を記録する。
func (c *Collector) RecordFavoriteAdded() {
	c.favoritesAdded.Inc()
}

// RecordFavoriteRemoved はお気に入り解除を記録する。
func (c *Collector) RecordFavoriteRemoved() {
	c.favoritesRemove.Inc()
}

// RecordSessionsCleaned はクリーンアップで削除されたセッション数を記録する。
func (c *Collector) RecordSessionsCleaned(count int64) {
	c.sessionsCleaned.Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
