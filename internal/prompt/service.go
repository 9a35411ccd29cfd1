// Package prompt はプロンプトカタログの取得・作成・更新・削除を提供する。
package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/promptbox/internal/model"
	"github.com/hitoshi/promptbox/internal/repository"
	"github.com/hitoshi/promptbox/internal/security"
)

// TagResolver はタグ名を共有タグIDに解決するインターフェース。
type TagResolver interface {
	Resolve(ctx context.Context, name, color string) (string, error)
}

// PromptWithTags はプロンプトと付与タグを結合した取得結果。
type PromptWithTags struct {
	*model.Prompt
	Tags []*model.Tag
}

// CreateInput はプロンプト作成の入力。
type CreateInput struct {
	Title             string
	Content           string
	Description       string
	Category          model.Category
	IsPublic          bool
	UsageInstructions string
	ExampleOutput     string
	Tags              []string
}

// SearchOptions はプロンプト検索の条件。
// 検索対象は常に公開済みかつ注目フラグ付きのプロンプトに限定される。
type SearchOptions struct {
	Query    string
	Category model.Category // 空の場合は全カテゴリ
	SortBy   string         // 空の場合はcreated_at
	SortAsc  bool
	Limit    int // 0の場合は無制限
}

// ListOptions は公開プロンプト一覧取得の条件。
// 検索と異なり注目フラグの有無は問わない。
type ListOptions struct {
	Category model.Category // 空の場合は全カテゴリ
	Search   string         // 空でない場合はタイトル・説明・本文の部分一致で絞り込む
	Limit    int            // 0の場合は無制限
}

// CatalogService はプロンプトカタログのビジネスロジックを提供する。
type CatalogService struct {
	prompts   repository.PromptRepository
	tags      repository.TagRepository
	favorites repository.FavoriteRepository
	resolver  TagResolver
	sanitizer security.ContentSanitizerService
}

// NewCatalogService はCatalogServiceを生成する。
func NewCatalogService(
	prompts repository.PromptRepository,
	tags repository.TagRepository,
	favorites repository.FavoriteRepository,
	resolver TagResolver,
	sanitizer security.ContentSanitizerService,
) *CatalogService {
	return &CatalogService{
		prompts:   prompts,
		tags:      tags,
		favorites: favorites,
		resolver:  resolver,
		sanitizer: sanitizer,
	}
}

// FetchPrompts は公開済みプロンプトの一覧を作成日時の降順で返す。
// カテゴリ・キーワード部分一致・件数上限で任意に絞り込める。
func (s *CatalogService) FetchPrompts(ctx context.Context, opts ListOptions) ([]*PromptWithTags, error) {
	if opts.Category != "" && !opts.Category.IsValid() {
		return nil, model.NewInvalidCategoryError(string(opts.Category))
	}

	prompts, err := s.prompts.List(ctx, repository.PromptListOptions{
		Category:   opts.Category,
		Search:     strings.TrimSpace(opts.Search),
		Limit:      opts.Limit,
		PublicOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}

	return s.attachTags(ctx, prompts)
}

// FetchFeaturedPrompts は公開済みかつ注目フラグ付きのプロンプト一覧を返す。
// limitが正の場合は件数を制限する。
func (s *CatalogService) FetchFeaturedPrompts(ctx context.Context, limit int) ([]*PromptWithTags, error) {
	return s.fetchFeatured(ctx, "", limit)
}

// FetchFeaturedPromptsByCategory は指定カテゴリの注目プロンプト一覧を返す。
func (s *CatalogService) FetchFeaturedPromptsByCategory(ctx context.Context, category model.Category, limit int) ([]*PromptWithTags, error) {
	if !category.IsValid() {
		return nil, model.NewInvalidCategoryError(string(category))
	}
	return s.fetchFeatured(ctx, category, limit)
}

func (s *CatalogService) fetchFeatured(ctx context.Context, category model.Category, limit int) ([]*PromptWithTags, error) {
	prompts, err := s.prompts.List(ctx, repository.PromptListOptions{
		Category:     category,
		Limit:        limit,
		PublicOnly:   true,
		FeaturedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list featured prompts: %w", err)
	}
	return s.attachTags(ctx, prompts)
}

// SearchPrompts はキーワードでプロンプトを検索する。
// 対象は常に公開済みかつ注目フラグ付きに限定される。
// ソート列は許可リスト外を指定するとエラーになる。
func (s *CatalogService) SearchPrompts(ctx context.Context, opts SearchOptions) ([]*PromptWithTags, error) {
	if opts.Category != "" && !opts.Category.IsValid() {
		return nil, model.NewInvalidCategoryError(string(opts.Category))
	}

	prompts, err := s.prompts.List(ctx, repository.PromptListOptions{
		Category:     opts.Category,
		Search:       strings.TrimSpace(opts.Query),
		PublicOnly:   true,
		FeaturedOnly: true,
		Limit:        opts.Limit,
		SortBy:       opts.SortBy,
		SortAsc:      opts.SortAsc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search prompts: %w", err)
	}

	return s.attachTags(ctx, prompts)
}

// FetchTags は全タグの一覧を名前の昇順で返す。
func (s *CatalogService) FetchTags(ctx context.Context) ([]*model.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// FetchPromptByID は指定IDのプロンプトをタグ付きで取得する。
// 見つからない場合はPROMPT_NOT_FOUNDエラーを返す。
func (s *CatalogService) FetchPromptByID(ctx context.Context, id string) (*PromptWithTags, error) {
	p, err := s.prompts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find prompt: %w", err)
	}
	if p == nil {
		return nil, model.NewPromptNotFoundError(id)
	}

	tags, err := s.tags.ListByPromptID(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	return &PromptWithTags{Prompt: p, Tags: tags}, nil
}

// FetchUserPrompts は指定ユーザーが作成した全プロンプトを返す。
// 公開・非公開を問わない。
func (s *CatalogService) FetchUserPrompts(ctx context.Context, authorID string) ([]*PromptWithTags, error) {
	prompts, err := s.prompts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user prompts: %w", err)
	}
	return s.attachTags(ctx, prompts)
}

// FetchUserFavorites はユーザーのお気に入りプロンプト一覧を返す。
// お気に入りが削除済みプロンプトを指している場合、その行は除外される。
func (s *CatalogService) FetchUserFavorites(ctx context.Context, userID string) ([]*PromptWithTags, error) {
	rows, err := s.favorites.ListByUserIDWithPrompts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	prompts := make([]*model.Prompt, 0, len(rows))
	for _, row := range rows {
		if row.Prompt == nil {
			continue
		}
		prompts = append(prompts, row.Prompt)
	}

	return s.attachTags(ctx, prompts)
}

// CreatePrompt はプロンプトを作成し、タグを解決して関連付ける。
// 個々のタグの解決・関連付けの失敗はログに記録して読み飛ばし、
// プロンプト作成自体は成功させる。
func (s *CatalogService) CreatePrompt(ctx context.Context, authorID string, input CreateInput) (*PromptWithTags, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("content is required")
	}
	if !input.Category.IsValid() {
		return nil, model.NewInvalidCategoryError(string(input.Category))
	}

	now := time.Now()
	p := &model.Prompt{
		ID:                uuid.New().String(),
		Title:             title,
		Content:           input.Content,
		Description:       s.sanitizer.Sanitize(input.Description),
		Category:          input.Category,
		AuthorID:          authorID,
		IsPublic:          input.IsPublic,
		UsageInstructions: s.sanitizer.Sanitize(input.UsageInstructions),
		ExampleOutput:     s.sanitizer.Sanitize(input.ExampleOutput),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.prompts.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create prompt: %w", err)
	}

	s.linkTags(ctx, p.ID, input.Tags)

	slog.Info("prompt created",
		slog.String("prompt_id", p.ID),
		slog.String("author_id", authorID),
		slog.String("category", string(p.Category)),
	)

	tags, err := s.tags.ListByPromptID(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	return &PromptWithTags{Prompt: p, Tags: tags}, nil
}

// UpdatePrompt はプロンプトを部分更新する。作成者本人のみ更新できる。
// 対象が存在しない場合と作成者が異なる場合は、区別せず
// PROMPT_NOT_FOUNDエラーを返す（他人のプロンプトの存在を漏らさない）。
//
// tagsはnilの場合は変更せず、非nil（空を含む）の場合は
// 既存の関連を全削除した上で指定のタグに付け替える。
func (s *CatalogService) UpdatePrompt(ctx context.Context, userID, promptID string, update repository.PromptUpdate, tags *[]string) (*PromptWithTags, error) {
	existing, err := s.prompts.FindByID(ctx, promptID)
	if err != nil {
		return nil, fmt.Errorf("failed to find prompt: %w", err)
	}
	if existing == nil || existing.AuthorID != userID {
		return nil, model.NewPromptNotFoundError(promptID)
	}

	if update.Category != nil && !update.Category.IsValid() {
		return nil, model.NewInvalidCategoryError(string(*update.Category))
	}

	sanitizePtr(s.sanitizer, update.Description)
	sanitizePtr(s.sanitizer, update.UsageInstructions)
	sanitizePtr(s.sanitizer, update.ExampleOutput)

	updated, err := s.prompts.Update(ctx, promptID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update prompt: %w", err)
	}
	if updated == nil {
		return nil, model.NewPromptNotFoundError(promptID)
	}

	if tags != nil {
		if err := s.tags.UnlinkAllFromPrompt(ctx, promptID); err != nil {
			return nil, fmt.Errorf("failed to unlink tags: %w", err)
		}
		s.linkTags(ctx, promptID, *tags)
	}

	slog.Info("prompt updated",
		slog.String("prompt_id", promptID),
		slog.String("author_id", userID),
	)

	currentTags, err := s.tags.ListByPromptID(ctx, promptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	return &PromptWithTags{Prompt: updated, Tags: currentTags}, nil
}

// DeletePrompt はプロンプトを削除する。作成者本人のみ削除できる。
// 関連するタグ関連とお気に入りはDBのCASCADEで削除される。
func (s *CatalogService) DeletePrompt(ctx context.Context, userID, promptID string) error {
	existing, err := s.prompts.FindByID(ctx, promptID)
	if err != nil {
		return fmt.Errorf("failed to find prompt: %w", err)
	}
	if existing == nil || existing.AuthorID != userID {
		return model.NewPromptNotFoundError(promptID)
	}

	if err := s.prompts.Delete(ctx, promptID); err != nil {
		return fmt.Errorf("failed to delete prompt: %w", err)
	}

	slog.Info("prompt deleted",
		slog.String("prompt_id", promptID),
		slog.String("author_id", userID),
	)
	return nil
}

// linkTags はタグ名の一覧を解決してプロンプトに関連付ける。
// 個々のタグの失敗はログに記録して読み飛ばす。
func (s *CatalogService) linkTags(ctx context.Context, promptID string, names []string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		tagID, err := s.resolver.Resolve(ctx, name, "")
		if err != nil {
			slog.Warn("failed to resolve tag",
				slog.String("prompt_id", promptID),
				slog.String("tag", name),
				slog.String("error", err.Error()),
			)
			continue
		}

		if err := s.tags.LinkPrompt(ctx, promptID, tagID); err != nil {
			slog.Warn("failed to link tag",
				slog.String("prompt_id", promptID),
				slog.String("tag", name),
				slog.String("error", err.Error()),
			)
		}
	}
}

// attachTags はプロンプト一覧の各要素にタグを付与する。
func (s *CatalogService) attachTags(ctx context.Context, prompts []*model.Prompt) ([]*PromptWithTags, error) {
	results := make([]*PromptWithTags, 0, len(prompts))
	for _, p := range prompts {
		tags, err := s.tags.ListByPromptID(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list tags: %w", err)
		}
		results = append(results, &PromptWithTags{Prompt: p, Tags: tags})
	}
	return results, nil
}

// sanitizePtr は非nilの文字列ポインタの値をサニタイズする。
func sanitizePtr(s security.ContentSanitizerService, v *string) {
	if v != nil {
		*v = s.Sanitize(*v)
	}
}
