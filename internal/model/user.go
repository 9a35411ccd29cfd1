// Package model はドメインモデルを定義する。
package model

import "time"

// User は電話番号認証のサービス利用ユーザーを表す。
// パスワードハッシュを保持するため、APIレスポンスに直接含めないこと。
type User struct {
	ID           string
	Phone        string
	PasswordHash string
	Username     string
	FullName     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// Profile はユーザーの公開プロフィールを表す。
// usersレコードの作成時にDBトリガーで自動作成され、IDはUser.IDと一致する。
type Profile struct {
	ID        string
	Username  string
	FullName  string
	Phone     string
	AvatarURL string
	Bio       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session はユーザーのログインセッションを表す。
// IDは推測不能なランダムトークンで、有効期限は発行から7日間（デフォルト）。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
