// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, conflict, prompt, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// AsAPIError はエラーチェーンからAPIErrorを取り出す。
// 見つからない場合はnilとfalseを返す。
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// 定義済みエラーコード
const (
	ErrCodeInvalidPhone       = "INVALID_PHONE"
	ErrCodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	ErrCodePhoneTaken         = "PHONE_TAKEN"
	ErrCodeUsernameTaken      = "USERNAME_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCategory    = "INVALID_CATEGORY"
	ErrCodePromptNotFound     = "PROMPT_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeAlreadyFavorited   = "ALREADY_FAVORITED"
	ErrCodeFavoriteNotFound   = "FAVORITE_NOT_FOUND"
	ErrCodeRemoteError        = "REMOTE_ERROR"
)

// NewInvalidPhoneError は電話番号形式エラーを生成する。
func NewInvalidPhoneError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPhone,
		Message:  "有効な携帯電話番号を入力してください（1で始まる11桁の数字）。",
		Category: "validation",
		Action:   "電話番号の形式を確認してください。",
	}
}

// NewPasswordTooShortError はパスワード長エラーを生成する。
func NewPasswordTooShortError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordTooShort,
		Message:  "パスワードは6文字以上で入力してください。",
		Category: "validation",
		Action:   "より長いパスワードを設定してください。",
	}
}

// NewPhoneTakenError は電話番号重複エラーを生成する。
func NewPhoneTakenError() *APIError {
	return &APIError{
		Code:     ErrCodePhoneTaken,
		Message:  "この電話番号は既に登録されています。",
		Category: "conflict",
		Action:   "登録済みの場合はログインしてください。",
	}
}

// NewUsernameTakenError はユーザー名重複エラーを生成する。
func NewUsernameTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeUsernameTaken,
		Message:  "このユーザー名は既に使用されています。",
		Category: "conflict",
		Action:   "別のユーザー名を指定してください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// 電話番号未登録とパスワード不一致で同一のメッセージを返し、
// どちらが誤っていたかを漏らさない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "電話番号またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidCategoryError は無効なカテゴリエラーを生成する。
func NewInvalidCategoryError(category string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCategory,
		Message:  fmt.Sprintf("無効なカテゴリです: %s", category),
		Category: "validation",
		Action:   "カテゴリには ecommerce、education、finance、image、video のいずれかを指定してください。",
	}
}

// NewPromptNotFoundError はプロンプト未検出エラーを生成する。
func NewPromptNotFoundError(promptID string) *APIError {
	return &APIError{
		Code:     ErrCodePromptNotFound,
		Message:  fmt.Sprintf("指定されたプロンプトが見つかりません: %s", promptID),
		Category: "prompt",
		Action:   "プロンプトIDを確認してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewAlreadyFavoritedError はお気に入りの重複登録エラーを生成する。
// 二重登録はDBの unique(user_id, prompt_id) 制約で検出される。
func NewAlreadyFavoritedError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyFavorited,
		Message:  "このプロンプトは既にお気に入りに登録されています。",
		Category: "conflict",
		Action:   "お気に入り一覧を確認してください。",
	}
}

// NewFavoriteNotFoundError はお気に入り未登録エラーを生成する。
func NewFavoriteNotFoundError(promptID string) *APIError {
	return &APIError{
		Code:     ErrCodeFavoriteNotFound,
		Message:  fmt.Sprintf("お気に入りに登録されていません: %s", promptID),
		Category: "prompt",
		Action:   "お気に入り一覧を確認してください。",
	}
}

// NewRemoteError はストレージ・通信層の失敗エラーを生成する。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func NewRemoteError() *APIError {
	return &APIError{
		Code:     ErrCodeRemoteError,
		Message:  "サーバーでエラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
