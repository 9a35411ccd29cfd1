package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/promptbox/internal/model"
)

// PostgresFavoriteRepo はPostgreSQLを使用したお気に入りリポジトリ。
type PostgresFavoriteRepo struct {
	db *sql.DB
}

// NewPostgresFavoriteRepo はPostgresFavoriteRepoを生成する。
func NewPostgresFavoriteRepo(db *sql.DB) *PostgresFavoriteRepo {
	return &PostgresFavoriteRepo{db: db}
}

// Create はお気に入りを作成する。
// unique(user_id, prompt_id) 制約違反の場合はErrDuplicateFavoriteを返す。
// クライアント側で事前の重複チェックは行わず、この制約が二重登録の唯一の防波堤となる。
func (r *PostgresFavoriteRepo) Create(ctx context.Context, favorite *model.Favorite) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (id, user_id, prompt_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		favorite.ID, favorite.UserID, favorite.PromptID, favorite.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateFavorite
		}
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

// DeleteByUserAndPrompt は指定の組のお気に入りを削除する。
// 削除対象がない場合はErrFavoriteNotFoundを返す。
func (r *PostgresFavoriteRepo) DeleteByUserAndPrompt(ctx context.Context, userID, promptID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND prompt_id = $2`,
		userID, promptID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// ListByUserID はユーザーのお気に入り一覧を返す。
func (r *PostgresFavoriteRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, prompt_id, created_at
		 FROM favorites
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []*model.Favorite
	for rows.Next() {
		fav := &model.Favorite{}
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.PromptID, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}

	return favorites, nil
}

// ListByUserIDWithPrompts はユーザーのお気に入り一覧をプロンプト付きで返す。
// LEFT JOINのため、プロンプトが削除済みの場合はPromptフィールドがnilになる。
// nil行の除外は呼び出し側の責務。
func (r *PostgresFavoriteRepo) ListByUserIDWithPrompts(ctx context.Context, userID string) ([]FavoriteWithPrompt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT f.id, f.user_id, f.prompt_id, f.created_at,
		        p.id, p.title, p.content, p.description, p.category, p.author_id,
		        p.is_public, p.is_featured, p.usage_count, p.like_count,
		        p.usage_instructions, p.example_output, p.created_at, p.updated_at
		 FROM favorites f
		 LEFT JOIN prompts p ON p.id = f.prompt_id
		 WHERE f.user_id = $1
		 ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites with prompts: %w", err)
	}
	defer rows.Close()

	var results []FavoriteWithPrompt
	for rows.Next() {
		var row FavoriteWithPrompt
		var pID, pTitle, pContent, pDescription, pCategory, pAuthorID sql.NullString
		var pUsageInstructions, pExampleOutput sql.NullString
		var pIsPublic, pIsFeatured sql.NullBool
		var pUsageCount, pLikeCount sql.NullInt64
		var pCreatedAt, pUpdatedAt sql.NullTime

		err := rows.Scan(
			&row.ID, &row.UserID, &row.PromptID, &row.CreatedAt,
			&pID, &pTitle, &pContent, &pDescription, &pCategory, &pAuthorID,
			&pIsPublic, &pIsFeatured, &pUsageCount, &pLikeCount,
			&pUsageInstructions, &pExampleOutput, &pCreatedAt, &pUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite with prompt: %w", err)
		}

		if pID.Valid {
			row.Prompt = &model.Prompt{
				ID:                pID.String,
				Title:             pTitle.String,
				Content:           pContent.String,
				Description:       pDescription.String,
				Category:          model.Category(pCategory.String),
				AuthorID:          pAuthorID.String,
				IsPublic:          pIsPublic.Bool,
				IsFeatured:        pIsFeatured.Bool,
				UsageCount:        int(pUsageCount.Int64),
				LikeCount:         int(pLikeCount.Int64),
				UsageInstructions: pUsageInstructions.String,
				ExampleOutput:     pExampleOutput.String,
				CreatedAt:         pCreatedAt.Time,
				UpdatedAt:         pUpdatedAt.Time,
			}
		}

		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}

	return results, nil
}

// compile-time interface check
var _ FavoriteRepository = (*PostgresFavoriteRepo)(nil)
