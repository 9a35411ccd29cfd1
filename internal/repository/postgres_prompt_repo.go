package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/hitoshi/promptbox/internal/model"
)

// PostgresPromptRepo はPostgreSQLを使用したプロンプトリポジトリ。
type PostgresPromptRepo struct {
	db *sql.DB
}

// NewPostgresPromptRepo はPostgresPromptRepoを生成する。
func NewPostgresPromptRepo(db *sql.DB) *PostgresPromptRepo {
	return &PostgresPromptRepo{db: db}
}

const promptColumns = `id, title, content, description, category, author_id,
	is_public, is_featured, usage_count, like_count,
	usage_instructions, example_output, created_at, updated_at`

// promptSortColumns はORDER BYに指定可能な列の許可リスト。
// 呼び出し側からの任意の列名指定をそのままSQLに展開しないためのガード。
var promptSortColumns = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"title":       true,
	"usage_count": true,
	"like_count":  true,
}

// resolveSortColumn はソート列名を検証する。
// 空の場合はデフォルトのcreated_atを返し、許可リスト外の場合はエラーを返す。
func resolveSortColumn(name string) (string, error) {
	if name == "" {
		return "created_at", nil
	}
	if !promptSortColumns[name] {
		return "", fmt.Errorf("invalid sort column: %s", name)
	}
	return name, nil
}

// scanPrompt は現在行をmodel.Promptに読み取る。
func scanPrompt(scan func(dest ...any) error) (*model.Prompt, error) {
	prompt := &model.Prompt{}
	err := scan(
		&prompt.ID, &prompt.Title, &prompt.Content, &prompt.Description,
		&prompt.Category, &prompt.AuthorID, &prompt.IsPublic, &prompt.IsFeatured,
		&prompt.UsageCount, &prompt.LikeCount,
		&prompt.UsageInstructions, &prompt.ExampleOutput,
		&prompt.CreatedAt, &prompt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return prompt, nil
}

// FindByID は指定IDのプロンプトを取得する。見つからない場合はnilを返す。
func (r *PostgresPromptRepo) FindByID(ctx context.Context, id string) (*model.Prompt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = $1`,
		id,
	)

	prompt, err := scanPrompt(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find prompt: %w", err)
	}
	return prompt, nil
}

// List は条件に一致するプロンプト一覧を返す。
// 検索文字列はtitle/description/contentのいずれかにILIKEで部分一致させる。
func (r *PostgresPromptRepo) List(ctx context.Context, opts PromptListOptions) ([]*model.Prompt, error) {
	var conds []string
	var args []any

	appendCond := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if opts.PublicOnly {
		conds = append(conds, "is_public = TRUE")
	}
	if opts.FeaturedOnly {
		conds = append(conds, "is_featured = TRUE")
	}
	if opts.Category != "" {
		appendCond("category = $%d", string(opts.Category))
	}
	if opts.Search != "" {
		pattern := "%" + escapeLike(opts.Search) + "%"
		args = append(args, pattern)
		n := strconv.Itoa(len(args))
		conds = append(conds,
			"(title ILIKE $"+n+" OR description ILIKE $"+n+" OR content ILIKE $"+n+")")
	}

	sortColumn, err := resolveSortColumn(opts.SortBy)
	if err != nil {
		return nil, err
	}
	direction := "DESC"
	if opts.SortAsc {
		direction = "ASC"
	}

	query := `SELECT ` + promptColumns + ` FROM prompts`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + sortColumn + " " + direction
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []*model.Prompt
	for rows.Next() {
		prompt, err := scanPrompt(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		prompts = append(prompts, prompt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prompts: %w", err)
	}

	return prompts, nil
}

// ListByAuthor は指定ユーザーが作成した全プロンプトをcreated_at降順で返す。
func (r *PostgresPromptRepo) ListByAuthor(ctx context.Context, authorID string) ([]*model.Prompt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+promptColumns+` FROM prompts
		 WHERE author_id = $1
		 ORDER BY created_at DESC`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts by author: %w", err)
	}
	defer rows.Close()

	var prompts []*model.Prompt
	for rows.Next() {
		prompt, err := scanPrompt(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		prompts = append(prompts, prompt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prompts: %w", err)
	}

	return prompts, nil
}

// Create はプロンプトを作成する。
func (r *PostgresPromptRepo) Create(ctx context.Context, prompt *model.Prompt) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO prompts (id, title, content, description, category, author_id,
		                      is_public, is_featured, usage_count, like_count,
		                      usage_instructions, example_output, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		prompt.ID, prompt.Title, prompt.Content, prompt.Description,
		string(prompt.Category), prompt.AuthorID, prompt.IsPublic, prompt.IsFeatured,
		prompt.UsageCount, prompt.LikeCount,
		prompt.UsageInstructions, prompt.ExampleOutput,
		prompt.CreatedAt, prompt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prompt: %w", err)
	}
	return nil
}

// Update はプロンプトを部分更新し、更新後のレコードを返す。
// 非nilのフィールドのみSET句に含め、nilのフィールドは既存値を維持する。
// 対象が存在しない場合はnilを返す。
func (r *PostgresPromptRepo) Update(ctx context.Context, id string, update PromptUpdate) (*model.Prompt, error) {
	sets, args := buildPromptUpdateSets(update)

	args = append(args, id)
	query := `UPDATE prompts SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) +
		` RETURNING ` + promptColumns

	row := r.db.QueryRowContext(ctx, query, args...)
	prompt, err := scanPrompt(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update prompt: %w", err)
	}
	return prompt, nil
}

// buildPromptUpdateSets はPromptUpdateからSET句とバインド引数を構築する。
func buildPromptUpdateSets(update PromptUpdate) ([]string, []any) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if update.Title != nil {
		appendSet("title", *update.Title)
	}
	if update.Content != nil {
		appendSet("content", *update.Content)
	}
	if update.Description != nil {
		appendSet("description", *update.Description)
	}
	if update.Category != nil {
		appendSet("category", string(*update.Category))
	}
	if update.IsPublic != nil {
		appendSet("is_public", *update.IsPublic)
	}
	if update.IsFeatured != nil {
		appendSet("is_featured", *update.IsFeatured)
	}
	if update.UsageInstructions != nil {
		appendSet("usage_instructions", *update.UsageInstructions)
	}
	if update.ExampleOutput != nil {
		appendSet("example_output", *update.ExampleOutput)
	}

	return sets, args
}

// Delete は指定IDのプロンプトを削除する。
// prompt_tagsとfavoritesはFOREIGN KEYのCASCADEで削除される。
func (r *PostgresPromptRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM prompts WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete prompt: %w", err)
	}
	return nil
}

// escapeLike はILIKEパターン内のメタ文字をエスケープする。
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// compile-time interface check
var _ PromptRepository = (*PostgresPromptRepo)(nil)
