// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/promptbox/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByPhone は電話番号でユーザーを検索する。有効/無効を問わない。
	// 見つからない場合はnilを返す。
	FindByPhone(ctx context.Context, phone string) (*model.User, error)

	// FindActiveByPhone は電話番号で有効（is_active = true）なユーザーを検索する。
	// 見つからない場合はnilを返す。
	FindActiveByPhone(ctx context.Context, phone string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。
	// excludeIDが空でない場合、そのIDのユーザーは除外して検索する。
	// 見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username, excludeID string) (*model.User, error)

	// Create はユーザーを作成する。
	// 関連するprofilesレコードはDBトリガーで自動作成される。
	Create(ctx context.Context, user *model.User) error

	// UpdateUsername はユーザー名を更新する。
	UpdateUsername(ctx context.Context, id, username string) error

	// UpdateLastLogin は最終ログイン日時を更新する。
	UpdateLastLogin(ctx context.Context, id string) error
}

// ProfileRepository はプロフィールデータの永続化インターフェース。
// profilesレコードの作成はDBトリガーが行うため、Createは提供しない。
type ProfileRepository interface {
	// FindByID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
	// トリガーによる作成とレースした直後はnilになり得る。
	FindByID(ctx context.Context, id string) (*model.Profile, error)

	// Update はプロフィールを部分更新する。nilフィールドは変更しない。
	Update(ctx context.Context, id string, update ProfileUpdate) error
}

// ProfileUpdate はプロフィールの部分更新を表す。
// 非nilのフィールドのみ上書きされる。
type ProfileUpdate struct {
	Username  *string
	FullName  *string
	AvatarURL *string
	Bio       *string
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しない場合もエラーにしない。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// PromptListOptions はプロンプト一覧取得の絞り込み条件。
// ゼロ値のフィールドは条件に含めない。
type PromptListOptions struct {
	Category     model.Category // 空の場合は全カテゴリ
	Search       string         // title/description/content の部分一致（大文字小文字無視）
	FeaturedOnly bool
	PublicOnly   bool
	Limit        int // 0の場合は無制限
	SortBy       string
	SortAsc      bool
}

// PromptUpdate はプロンプトの部分更新を表す。
// 非nilのフィールドのみ上書きされ、nilのフィールドは既存値を維持する。
type PromptUpdate struct {
	Title             *string
	Content           *string
	Description       *string
	Category          *model.Category
	IsPublic          *bool
	IsFeatured        *bool
	UsageInstructions *string
	ExampleOutput     *string
}

// PromptRepository はプロンプトデータの永続化インターフェース。
type PromptRepository interface {
	// FindByID は指定IDのプロンプトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Prompt, error)

	// List は条件に一致するプロンプト一覧を返す。
	// SortByは許可リスト外の列名を指定するとエラーを返す。
	List(ctx context.Context, opts PromptListOptions) ([]*model.Prompt, error)

	// ListByAuthor は指定ユーザーが作成した全プロンプトをcreated_at降順で返す。
	// 公開/非公開を問わない。
	ListByAuthor(ctx context.Context, authorID string) ([]*model.Prompt, error)

	// Create はプロンプトを作成する。
	Create(ctx context.Context, prompt *model.Prompt) error

	// Update はプロンプトを部分更新し、更新後のレコードを返す。
	// 対象が存在しない場合はnilを返す。
	Update(ctx context.Context, id string, update PromptUpdate) (*model.Prompt, error)

	// Delete は指定IDのプロンプトを削除する。
	// 関連するprompt_tags、favoritesはCASCADE削除される。
	Delete(ctx context.Context, id string) error
}

// TagRepository はタグと関連データの永続化インターフェース。
type TagRepository interface {
	// FindByName はタグ名でタグを検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Tag, error)

	// UpsertByName は同名タグが存在すればそのIDを、存在しなければ新規作成してIDを返す。
	// ON CONFLICTで原子的に解決するため、同名の同時作成でも重複レコードは生じない。
	UpsertByName(ctx context.Context, name, color string) (string, error)

	// LinkPrompt はプロンプトとタグの関連を作成する。既存の関連は無視する。
	LinkPrompt(ctx context.Context, promptID, tagID string) error

	// UnlinkAllFromPrompt はプロンプトの全タグ関連を削除する。
	UnlinkAllFromPrompt(ctx context.Context, promptID string) error

	// ListByPromptID はプロンプトに付与されたタグ一覧を返す。
	ListByPromptID(ctx context.Context, promptID string) ([]*model.Tag, error)

	// List は全タグの一覧を名前の昇順で返す。
	List(ctx context.Context) ([]*model.Tag, error)
}

// FavoriteRepository はお気に入りデータの永続化インターフェース。
type FavoriteRepository interface {
	// Create はお気に入りを作成する。
	// (user_id, prompt_id) の一意制約違反の場合はErrDuplicateFavoriteを返す。
	Create(ctx context.Context, favorite *model.Favorite) error

	// DeleteByUserAndPrompt は指定の組のお気に入りを削除する。
	// 削除対象がない場合はErrFavoriteNotFoundを返す。
	DeleteByUserAndPrompt(ctx context.Context, userID, promptID string) error

	// ListByUserID はユーザーのお気に入り一覧を返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Favorite, error)

	// ListByUserIDWithPrompts はユーザーのお気に入り一覧をプロンプト付きで
	// created_at降順で返す。プロンプトが存在しない場合、Promptフィールドはnil。
	ListByUserIDWithPrompts(ctx context.Context, userID string) ([]FavoriteWithPrompt, error)
}

// FavoriteWithPrompt はお気に入りとプロンプトを結合した構造体。
type FavoriteWithPrompt struct {
	model.Favorite
	Prompt *model.Prompt
}
