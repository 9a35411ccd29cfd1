package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hitoshi/promptbox/internal/model"
	"github.com/hitoshi/promptbox/internal/repository"
)

// mockPromptRepo はPromptRepositoryのモック実装。
type mockPromptRepo struct {
	findByIDFunc     func(ctx context.Context, id string) (*model.Prompt, error)
	listFunc         func(ctx context.Context, opts repository.PromptListOptions) ([]*model.Prompt, error)
	listByAuthorFunc func(ctx context.Context, authorID string) ([]*model.Prompt, error)
	createFunc       func(ctx context.Context, prompt *model.Prompt) error
	updateFunc       func(ctx context.Context, id string, update repository.PromptUpdate) (*model.Prompt, error)
	deleteFunc       func(ctx context.Context, id string) error
}

func (m *mockPromptRepo) FindByID(ctx context.Context, id string) (*model.Prompt, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockPromptRepo) List(ctx context.Context, opts repository.PromptListOptions) ([]*model.Prompt, error) {
	return m.listFunc(ctx, opts)
}

func (m *mockPromptRepo) ListByAuthor(ctx context.Context, authorID string) ([]*model.Prompt, error) {
	return m.listByAuthorFunc(ctx, authorID)
}

func (m *mockPromptRepo) Create(ctx context.Context, prompt *model.Prompt) error {
	return m.createFunc(ctx, prompt)
}

func (m *mockPromptRepo) Update(ctx context.Context, id string, update repository.PromptUpdate) (*model.Prompt, error) {
	return m.updateFunc(ctx, id, update)
}

func (m *mockPromptRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

var _ repository.PromptRepository = (*mockPromptRepo)(nil)

// mockTagRepo はTagRepositoryのモック実装。
type mockTagRepo struct {
	findByNameFunc          func(ctx context.Context, name string) (*model.Tag, error)
	upsertByNameFunc        func(ctx context.Context, name, color string) (string, error)
	linkPromptFunc          func(ctx context.Context, promptID, tagID string) error
	unlinkAllFromPromptFunc func(ctx context.Context, promptID string) error
	listByPromptIDFunc      func(ctx context.Context, promptID string) ([]*model.Tag, error)
	listFunc                func(ctx context.Context) ([]*model.Tag, error)
}

func (m *mockTagRepo) FindByName(ctx context.Context, name string) (*model.Tag, error) {
	return m.findByNameFunc(ctx, name)
}

func (m *mockTagRepo) UpsertByName(ctx context.Context, name, color string) (string, error) {
	return m.upsertByNameFunc(ctx, name, color)
}

func (m *mockTagRepo) LinkPrompt(ctx context.Context, promptID, tagID string) error {
	if m.linkPromptFunc != nil {
		return m.linkPromptFunc(ctx, promptID, tagID)
	}
	return nil
}

func (m *mockTagRepo) UnlinkAllFromPrompt(ctx context.Context, promptID string) error {
	if m.unlinkAllFromPromptFunc != nil {
		return m.unlinkAllFromPromptFunc(ctx, promptID)
	}
	return nil
}

func (m *mockTagRepo) ListByPromptID(ctx context.Context, promptID string) ([]*model.Tag, error) {
	if m.listByPromptIDFunc != nil {
		return m.listByPromptIDFunc(ctx, promptID)
	}
	return nil, nil
}

func (m *mockTagRepo) List(ctx context.Context) ([]*model.Tag, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

var _ repository.TagRepository = (*mockTagRepo)(nil)

// mockFavoriteRepo はFavoriteRepositoryのモック実装。
type mockFavoriteRepo struct {
	listByUserIDWithPromptsFunc func(ctx context.Context, userID string) ([]repository.FavoriteWithPrompt, error)
}

func (m *mockFavoriteRepo) Create(ctx context.Context, favorite *model.Favorite) error {
	return nil
}

func (m *mockFavoriteRepo) DeleteByUserAndPrompt(ctx context.Context, userID, promptID string) error {
	return nil
}

func (m *mockFavoriteRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Favorite, error) {
	return nil, nil
}

func (m *mockFavoriteRepo) ListByUserIDWithPrompts(ctx context.Context, userID string) ([]repository.FavoriteWithPrompt, error) {
	return m.listByUserIDWithPromptsFunc(ctx, userID)
}

var _ repository.FavoriteRepository = (*mockFavoriteRepo)(nil)

// mockResolver はTagResolverのモック実装。
type mockResolver struct {
	resolveFunc func(ctx context.Context, name, color string) (string, error)
}

func (m *mockResolver) Resolve(ctx context.Context, name, color string) (string, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, name, color)
	}
	return "tag-" + name, nil
}

// fakeSanitizer はマーカーを付与するContentSanitizerService実装。
type fakeSanitizer struct{}

func (fakeSanitizer) Sanitize(rawHTML string) string {
	return strings.ReplaceAll(rawHTML, "<script>", "")
}

func newTestCatalogService(prompts *mockPromptRepo, tags *mockTagRepo, favorites *mockFavoriteRepo, resolver *mockResolver) *CatalogService {
	if tags == nil {
		tags = &mockTagRepo{}
	}
	if favorites == nil {
		favorites = &mockFavoriteRepo{}
	}
	if resolver == nil {
		resolver = &mockResolver{}
	}
	return NewCatalogService(prompts, tags, favorites, resolver, fakeSanitizer{})
}

func TestFetchPrompts_PublicOnly(t *testing.T) {
	var gotOpts repository.PromptListOptions
	prompts := &mockPromptRepo{
		listFunc: func(ctx context.Context, opts repository.PromptListOptions) ([]*model.Prompt, error) {
			gotOpts = opts
			return []*model.Prompt{{ID: "p1", Category: model.CategoryEcommerce}}, nil
		},
	}
	service := newTestCatalogService(prompts, nil, nil, nil)

	results, err := service.FetchPrompts(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("FetchPrompts returned error: %v", err)
	}

	if !gotOpts.PublicOnly {
		t.Error("PublicOnly = false, want true")
	}
	if gotOpts.FeaturedOnly {
		t.Error("FeaturedOnly = true, want false")
	}
	if len(results) != 1 {
		t.Errorf("results = %d entries, want 1", len(results))
	}
}

func TestFetchPrompts_ForwardsSearchAndLimit(t *testing.T) {
	// 一覧取得の部分一致検索は注目フラグの有無を問わず公開プロンプト全体が対象
	var gotOpts repository.PromptListOptions
	prompts := &mockPromptRepo{
		listFunc: func(ctx context.Context, opts repository.PromptListOptions) ([]*model.Prompt, error) {
			gotOpts = opts
			return nil, nil
		},
	}
	service := newTestCatalogService(prompts, nil, nil, nil)

	_, err := service.FetchPrompts(context.Background(), ListOptions{
		Search: "  コピー  ",
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("FetchPrompts returned error: %v", err)
	}

	if gotOpts.Search != "コピー" {
		t.Errorf("Search = %q, want trimmed %q", gotOpts.Search, "コピー")
	}
	if gotOpts.Limit != 10 {
		t.Errorf("Limit = %d, want 10", gotOpts.Limit)
	}
	if !gotOpts.PublicOnly || gotOpts.FeaturedOnly {
		t.Errorf("PublicOnly = %v, FeaturedOnly = %v, want true/false", gotOpts.PublicOnly, gotOpts.FeaturedOnly)
	}
}

func TestFetchPrompts_InvalidCategory(t *testing.T) {
	service := newTestCatalogService(&mockPromptRepo{}, nil, nil, nil)

	_, err := service.FetchPrompts(context.Background(), ListOptions{Category: "sports"})
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.ErrCodeInvalidCategory {
		t.Errorf("error = %v, want INVALID_CATEGORY", err)
	}
}

func TestSearchPrompts_ForcesPublicAndFeatured(t *testing.T) {
	// 検索は常に公開済みかつ注目フラグ付きに限定される
	var gotOpts repository.PromptListOptions
	prompts := &mockPromptRepo{
		listFunc: func(ctx context.Context, opts repository.PromptListOptions) ([]*model.Prompt, error) {
			gotOpts = opts
			return nil, nil
		},
	}
	service := newTestCatalogService(prompts, nil, nil, nil)

	_, err := service.SearchPrompts(context.Background(), SearchOptions{
		Query:  "  copywriting  ",
		SortBy: "usage_count",
		Limit:  20,
	})
	if err != nil {
		t.Fatalf("SearchPrompts returned error: %v", err)
	}

	if !gotOpts.PublicOnly || !gotOpts.FeaturedOnly {
		t.Errorf("PublicOnly = %v, FeaturedOnly = %v, want both true", gotOpts.PublicOnly, gotOpts.FeaturedOnly)
	}
	if gotOpts.Search != "copywriting" {
		t.Errorf("Search = %q, want trimmed %q", gotOpts.Search, "copywriting")
	}
	if gotOpts.SortBy != "usage_count" {
		t.Errorf("SortBy = %q, want %q", gotOpts.SortBy, "usage_count")
	}
	if gotOpts.Limit != 20 {
		t.Errorf("Limit = %d, want 20", gotOpts.Limit)
	}
}

func TestFetchPromptByID_NotFound(t *testing.T) {
	prompts := &mockPromptRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Prompt, error) {
			return nil, nil
		},
	}
	service := newTestCatalogService(prompts, nil, nil, nil)

	_, err := service.FetchPromptByID(context.Background(), "missing")
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.ErrCodePromptNotFound {
		t.Errorf("error = %v, want PROMPT_NOT_FOUND", err)
	}
}

func TestFetchPromptByID_AttachesTags(t *testing.T) {
	prompts := &mockPromptRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Prompt, error) {
			return &model.Prompt{ID: id}, nil
		},
	}
	tags := &mockTagRepo{
		listByPromptIDFunc: func(ctx context.Context, promptID string) ([]*model.Tag, error) {
			return []*model.Tag{{ID: "tag-1", Name: "marketing"}}, nil
		},
	}
	service := newTestCatalogService(prompts, tags, nil, nil)

	result, err := service.FetchPromptByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("FetchPromptByID returned error: %v", err)
	}
	if len(result.Tags) != 1 || result.Tags[0].Name != "marketing" {
		t.Errorf("Tags = %v, want marketing tag", result.Tags)
	}
}

func TestCreatePrompt_Success(t *testing.T) {
	var created *model.Prompt
	prompts := &mockPromptRepo{
		createFunc: func(ctx context.Context, prompt *model.Prompt) error {
			created = prompt
			return nil
		},
	}

	var linked []string
	tags := &mockTagRepo{
		linkPromptFunc: func(ctx context.Context, promptID, tagID string) error {
			linked = append(linked, tagID)
			return nil
		},
	}
	service := newTestCatalogService(prompts, tags, nil, nil)

	result, err := service.CreatePrompt(context.Background(), "author-1", CreateInput{
		Title:       "商品紹介文の生成",
		Content:     "あなたはECサイトのコピーライターです。",
		Description: "<script>alert(1)</script><p>説明</p>",
		Category:    model.CategoryEcommerce,
		IsPublic:    true,
		Tags:        []string{"ec", "copywriting"},
	})
	if err != nil {
		t.Fatalf("CreatePrompt returned error: %v", err)
	}

	if created == nil {
		t.Fatal("prompt was not created")
	}
	if created.AuthorID != "author-1" {
		t.Errorf("AuthorID = %q, want %q", created.AuthorID, "author-1")
	}
	if created.ID == "" {
		t.Error("ID was not assigned")
	}
	if strings.Contains(created.Description, "<script>") {
		t.Error("Description was not sanitized")
	}
	if len(linked) != 2 {
		t.Errorf("linked tags = %v, want 2 entries", linked)
	}
	if result.Prompt == nil {
		t.Fatal("result prompt is nil")
	}
}

func TestCreatePrompt_Validation(t *testing.T) {
	service := newTestCatalogService(&mockPromptRepo{}, nil, nil, nil)

	if _, err := service.CreatePrompt(context.Background(), "author-1", CreateInput{
		Content:  "content",
		Category: model.CategoryEcommerce,
	}); err == nil {
		t.Error("expected error for missing title, got nil")
	}

	if _, err := service.CreatePrompt(context.Background(), "author-1", CreateInput{
		Title:    "title",
		Category: model.CategoryEcommerce,
	}); err == nil {
		t.Error("expected error for missing content, got nil")
	}

	_, err := service.CreatePrompt(context.Background(), "author-1", CreateInput{
		Title:    "title",
		Content:  "content",
		Category: "sports",
	})
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.ErrCodeInvalidCategory {
		t.Errorf("error = %v, want INVALID_CATEGORY", err)
	}
}

func TestCreatePrompt_TagFailureIsSkipped(t *testing.T) {
	// タグ解決の失敗はプロンプト作成自体を失敗させない
	prompts := &mockPromptRepo{
		createFunc: func(ctx context.Context, prompt *model.Prompt) error { return nil },
	}
	var linked []string
	tags := &mockTagRepo{
		linkPromptFunc: func(ctx context.Context, promptID, tagID string) error {
			linked = append(linked, tagID)
			return nil
		},
	}
	resolver := &mockResolver{
		resolveFunc: func(ctx context.Context, name, color string) (string, error) {
			if name == "broken" {
				return "", errors.New("resolve failed")
			}
			return "tag-" + name, nil
		},
	}
	service := newTestCatalogService(prompts, tags, nil, resolver)

	_, err := service.CreatePrompt(context.Background(), "author-1", CreateInput{
		Title:    "title",
		Content:  "content",
		Category: model.CategoryImage,
		Tags:     []string{"broken", "ok"},
	})
	if err != nil {
		t.Fatalf("CreatePrompt returned error: %v", err)
	}

	if len(linked) != 1 || linked[0] != "tag-ok" {
		t.Errorf("linked = %v, want only tag-ok", linked)
	}
}

func TestUpdatePrompt_OwnershipMismatchReturnsNotFound(t *testing.T) {
	// 他人のプロンプトは存在しないのと同じ扱いにする
	prompts := &mockPromptRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Prompt, error) {
			return &model.Prompt{ID: id, AuthorID: "someone-else"}, nil
		},
	}
	service := newTestCatalogService(prompts, nil, nil, nil)

	_, err := service.UpdatePrompt(context.Background(), "user-1", "p1", repository.PromptUpdate{}, nil)
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.ErrCodePromptNotFound {
		t.Errorf("error = %v, want PROMPT_NOT_FOUND", err)
	}
}

func TestUpdatePrompt_NilTagsKeepExistingLinks(t *testing.T) {
	prompts := &mockPromptRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Prompt, error) {
			return &model.Prompt{ID: id, AuthorID: "user-1"}, nil
		},
		updateFunc: func(ctx context.Context, id string, update repository.PromptUpdate) (*model.Prompt, error) {
			return &model.Prompt{ID: id, AuthorID: "user-1"}, nil
		},
	}
	unlinked := false
	tags := &mockTagRepo{
		unlinkAllFromPromptFunc: func(ctx context.Context, promptID string) error {
			unlinked = true
			return nil
		},
	}
	service := newTestCatalogService(prompts, tags, nil, nil)

	if _, err := service.UpdatePrompt(context.Background(), "user-1", "p1", repository.PromptUpdate{}, nil); err != nil {
		t.Fatalf("UpdatePrompt returned error: %v", err)
	}
	if unlinked {
		t.Error("tags were unlinked although tags parameter was nil")
	}
}

func TestUpdatePrompt_EmptyTagsClearLinks(t *testing.T) {
	prompts := &mockPromptRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Prompt, error) {
			return &model.Prompt{ID: id, AuthorID: "user-1"}, nil
		},
		updateFunc: func(ctx context.Context, id string, update repository.PromptUpdate) (*model.Prompt, error) {
			return &model.Prompt{ID: id, AuthorID: "user-1"}, nil
		},
	}
	unlinked := false
	var linked []string
	tags := &mockTagRepo{
		unlinkAllFromPromptFunc: func(ctx context.Context, promptID string) error {
			unlinked = true
			return nil
		},
		linkPromptFunc: func(ctx context.Context, promptID, tagID string) error {
			linked = append(linked, tagID)
			return nil
		},
	}
	service := newTestCatalogService(prompts, tags, nil, nil)

	empty := []string{}
	if _, err := service.UpdatePrompt(context.Background(), "user-1", "p1", repository.PromptUpdate{}, &empty); err != nil {
		t.Fatalf("UpdatePrompt returned error: %v", err)
	}
	if !unlinked {
		t.Error("existing tags were not unlinked for empty tags slice")
	}
	if len(linked) != 0 {
		t.Errorf("linked = %v, want no new links", linked)
	}
}

func TestUpdatePrompt_ReplacesTags(t *testing.T) {
	prompts := &mockPromptRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Prompt, error) {
			return &model.Prompt{ID: id, AuthorID: "user-1"}, nil
		},
		updateFunc: func(ctx context.Context, id string, update repository.PromptUpdate) (*model.Prompt, error) {
			return &model.Prompt{ID: id, AuthorID: "user-1"}, nil
		},
	}
	unlinked := false
	var linked []string
	tags := &mockTagRepo{
		unlinkAllFromPromptFunc: func(ctx context.Context, promptID string) error {
			unlinked = true
			return nil
		},
		linkPromptFunc: func(ctx context.Context, promptID, tagID string) error {
			linked = append(linked, tagID)
			return nil
		},
	}
	service := newTestCatalogService(prompts, tags, nil, nil)

	newTags := []string{"design"}
	if _, err := service.UpdatePrompt(context.Background(), "user-1", "p1", repository.PromptUpdate{}, &newTags); err != nil {
		t.Fatalf("UpdatePrompt returned error: %v", err)
	}
	if !unlinked {
		t.Error("existing tags were not unlinked")
	}
	if len(linked) != 1 || linked[0] != "tag-design" {
		t.Errorf("linked = %v, want [tag-design]", linked)
	}
}

func TestUpdatePrompt_SanitizesRichTextFields(t *testing.T) {
	var gotUpdate repository.PromptUpdate
	prompts := &mockPromptRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Prompt, error) {
			return &model.Prompt{ID: id, AuthorID: "user-1"}, nil
		},
		updateFunc: func(ctx context.Context, id string, update repository.PromptUpdate) (*model.Prompt, error) {
			gotUpdate = update
			return &model.Prompt{ID: id, AuthorID: "user-1"}, nil
		},
	}
	service := newTestCatalogService(prompts, nil, nil, nil)

	desc := "<script>bad</script>safe"
	if _, err := service.UpdatePrompt(context.Background(), "user-1", "p1", repository.PromptUpdate{Description: &desc}, nil); err != nil {
		t.Fatalf("UpdatePrompt returned error: %v", err)
	}
	if gotUpdate.Description == nil || strings.Contains(*gotUpdate.Description, "<script>") {
		t.Error("Description was not sanitized before persistence")
	}
}

func TestDeletePrompt_OwnershipMismatchReturnsNotFound(t *testing.T) {
	prompts := &mockPromptRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Prompt, error) {
			return &model.Prompt{ID: id, AuthorID: "someone-else"}, nil
		},
	}
	service := newTestCatalogService(prompts, nil, nil, nil)

	err := service.DeletePrompt(context.Background(), "user-1", "p1")
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.ErrCodePromptNotFound {
		t.Errorf("error = %v, want PROMPT_NOT_FOUND", err)
	}
}

func TestDeletePrompt_Success(t *testing.T) {
	deleted := ""
	prompts := &mockPromptRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Prompt, error) {
			return &model.Prompt{ID: id, AuthorID: "user-1"}, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	service := newTestCatalogService(prompts, nil, nil, nil)

	if err := service.DeletePrompt(context.Background(), "user-1", "p1"); err != nil {
		t.Fatalf("DeletePrompt returned error: %v", err)
	}
	if deleted != "p1" {
		t.Errorf("deleted = %q, want %q", deleted, "p1")
	}
}

func TestFetchUserFavorites_FiltersDeletedPrompts(t *testing.T) {
	favorites := &mockFavoriteRepo{
		listByUserIDWithPromptsFunc: func(ctx context.Context, userID string) ([]repository.FavoriteWithPrompt, error) {
			return []repository.FavoriteWithPrompt{
				{Favorite: model.Favorite{ID: "fav-1", PromptID: "p1"}, Prompt: &model.Prompt{ID: "p1"}},
				{Favorite: model.Favorite{ID: "fav-2", PromptID: "p2"}, Prompt: nil}, // 削除済みプロンプト
				{Favorite: model.Favorite{ID: "fav-3", PromptID: "p3"}, Prompt: &model.Prompt{ID: "p3"}},
			}, nil
		},
	}
	service := newTestCatalogService(&mockPromptRepo{}, nil, favorites, nil)

	results, err := service.FetchUserFavorites(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("FetchUserFavorites returned error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("results = %d entries, want 2 (deleted prompt filtered)", len(results))
	}
	if results[0].ID != "p1" || results[1].ID != "p3" {
		t.Errorf("results = [%s, %s], want [p1, p3]", results[0].ID, results[1].ID)
	}
}

func TestFetchFeaturedPromptsByCategory_InvalidCategory(t *testing.T) {
	service := newTestCatalogService(&mockPromptRepo{}, nil, nil, nil)

	_, err := service.FetchFeaturedPromptsByCategory(context.Background(), "sports", 0)
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.ErrCodeInvalidCategory {
		t.Errorf("error = %v, want INVALID_CATEGORY", err)
	}
}

func TestFetchFeaturedPrompts_SetsFeaturedFlag(t *testing.T) {
	var gotOpts repository.PromptListOptions
	prompts := &mockPromptRepo{
		listFunc: func(ctx context.Context, opts repository.PromptListOptions) ([]*model.Prompt, error) {
			gotOpts = opts
			return nil, nil
		},
	}
	service := newTestCatalogService(prompts, nil, nil, nil)

	if _, err := service.FetchFeaturedPrompts(context.Background(), 0); err != nil {
		t.Fatalf("FetchFeaturedPrompts returned error: %v", err)
	}
	if !gotOpts.FeaturedOnly || !gotOpts.PublicOnly {
		t.Errorf("FeaturedOnly = %v, PublicOnly = %v, want both true", gotOpts.FeaturedOnly, gotOpts.PublicOnly)
	}
}

func TestFetchFeaturedPrompts_ForwardsLimit(t *testing.T) {
	var gotOpts repository.PromptListOptions
	prompts := &mockPromptRepo{
		listFunc: func(ctx context.Context, opts repository.PromptListOptions) ([]*model.Prompt, error) {
			gotOpts = opts
			return nil, nil
		},
	}
	service := newTestCatalogService(prompts, nil, nil, nil)

	if _, err := service.FetchFeaturedPrompts(context.Background(), 6); err != nil {
		t.Fatalf("FetchFeaturedPrompts returned error: %v", err)
	}
	if gotOpts.Limit != 6 {
		t.Errorf("Limit = %d, want 6", gotOpts.Limit)
	}
}

func TestFetchTags_ReturnsAllTags(t *testing.T) {
	tags := &mockTagRepo{
		listFunc: func(ctx context.Context) ([]*model.Tag, error) {
			return []*model.Tag{
				{ID: "tag-1", Name: "copywriting", Color: "#3B82F6"},
				{ID: "tag-2", Name: "design", Color: "#FF0000"},
			}, nil
		},
	}
	service := newTestCatalogService(&mockPromptRepo{}, tags, nil, nil)

	results, err := service.FetchTags(context.Background())
	if err != nil {
		t.Fatalf("FetchTags returned error: %v", err)
	}
	if len(results) != 2 || results[0].Name != "copywriting" {
		t.Errorf("results = %v, want 2 tags starting with copywriting", results)
	}
}
