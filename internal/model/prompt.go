// Package model はドメインモデルを定義する。
package model

import "time"

// Category はプロンプトのカテゴリを表す。
type Category string

const (
	// CategoryEcommerce はEC・物販向けカテゴリ。
	CategoryEcommerce Category = "ecommerce"
	// CategoryEducation は教育向けカテゴリ。
	CategoryEducation Category = "education"
	// CategoryFinance は金融向けカテゴリ。
	CategoryFinance Category = "finance"
	// CategoryImage は画像生成向けカテゴリ。
	CategoryImage Category = "image"
	// CategoryVideo は動画生成向けカテゴリ。
	CategoryVideo Category = "video"
)

// IsValid はカテゴリが定義済みの値かどうかを判定する。
func (c Category) IsValid() bool {
	switch c {
	case CategoryEcommerce, CategoryEducation, CategoryFinance, CategoryImage, CategoryVideo:
		return true
	default:
		return false
	}
}

// Prompt は共有されるプロンプトレコードを表す。
type Prompt struct {
	ID                string
	Title             string
	Content           string
	Description       string // サニタイズ済み
	Category          Category
	AuthorID          string
	IsPublic          bool
	IsFeatured        bool
	UsageCount        int
	LikeCount         int
	UsageInstructions string // サニタイズ済み
	ExampleOutput     string // サニタイズ済み
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Tag はプロンプトに付与される共有タグを表す。
// nameは一意で、同名タグは常に同一レコードに解決される。
type Tag struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}

// Favorite はユーザーのお気に入り登録を表す。
// (user_id, prompt_id) の組で一意。
type Favorite struct {
	ID        string
	UserID    string
	PromptID  string
	CreatedAt time.Time
}
