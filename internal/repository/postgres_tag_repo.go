package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/promptbox/internal/model"
)

// PostgresTagRepo はPostgreSQLを使用したタグリポジトリ。
type PostgresTagRepo struct {
	db *sql.DB
}

// NewPostgresTagRepo はPostgresTagRepoを生成する。
func NewPostgresTagRepo(db *sql.DB) *PostgresTagRepo {
	return &PostgresTagRepo{db: db}
}

// FindByName はタグ名でタグを検索する。見つからない場合はnilを返す。
func (r *PostgresTagRepo) FindByName(ctx context.Context, name string) (*model.Tag, error) {
	tag := &model.Tag{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color, created_at FROM tags WHERE name = $1`,
		name,
	).Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tag by name: %w", err)
	}

	return tag, nil
}

// UpsertByName は同名タグが存在すればそのIDを、存在しなければ新規作成してIDを返す。
// ON CONFLICT ... DO UPDATEのRETURNINGで既存行のIDも取得できるため、
// 同名の同時作成が競合しても必ず単一のタグに解決される。
// 既存タグのcolorは変更しない。
func (r *PostgresTagRepo) UpsertByName(ctx context.Context, name, color string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tags (name, color) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		name, color,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert tag: %w", err)
	}
	return id, nil
}

// LinkPrompt はプロンプトとタグの関連を作成する。既存の関連は無視する。
func (r *PostgresTagRepo) LinkPrompt(ctx context.Context, promptID, tagID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO prompt_tags (prompt_id, tag_id) VALUES ($1, $2)
		 ON CONFLICT (prompt_id, tag_id) DO NOTHING`,
		promptID, tagID,
	)
	if err != nil {
		return fmt.Errorf("failed to link tag to prompt: %w", err)
	}
	return nil
}

// UnlinkAllFromPrompt はプロンプトの全タグ関連を削除する。
func (r *PostgresTagRepo) UnlinkAllFromPrompt(ctx context.Context, promptID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM prompt_tags WHERE prompt_id = $1`,
		promptID,
	)
	if err != nil {
		return fmt.Errorf("failed to unlink tags from prompt: %w", err)
	}
	return nil
}

// ListByPromptID はプロンプトに付与されたタグ一覧を名前順で返す。
func (r *PostgresTagRepo) ListByPromptID(ctx context.Context, promptID string) ([]*model.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.color, t.created_at
		 FROM tags t
		 JOIN prompt_tags pt ON pt.tag_id = t.id
		 WHERE pt.prompt_id = $1
		 ORDER BY t.name`,
		promptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for prompt: %w", err)
	}
	defer rows.Close()

	var tags []*model.Tag
	for rows.Next() {
		tag := &model.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}

	return tags, nil
}

// List は全タグの一覧を名前の昇順で返す。
func (r *PostgresTagRepo) List(ctx context.Context) ([]*model.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, created_at FROM tags ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []*model.Tag
	for rows.Next() {
		tag := &model.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}

	return tags, nil
}

// compile-time interface check
var _ TagRepository = (*PostgresTagRepo)(nil)
