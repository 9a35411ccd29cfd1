package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/hitoshi/promptbox/internal/model"
)

// PostgresProfileRepo はPostgreSQLを使用したプロフィールリポジトリ。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// FindByID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
// usersレコード作成直後はトリガーによる作成とレースし、nilになり得る。
func (r *PostgresProfileRepo) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	profile := &model.Profile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, full_name, phone, avatar_url, bio, created_at, updated_at
		 FROM profiles WHERE id = $1`,
		id,
	).Scan(
		&profile.ID, &profile.Username, &profile.FullName, &profile.Phone,
		&profile.AvatarURL, &profile.Bio, &profile.CreatedAt, &profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return profile, nil
}

// Update はプロフィールを部分更新する。非nilのフィールドのみ上書きする。
// 更新対象フィールドがない場合はupdated_atのみ更新する。
func (r *PostgresProfileRepo) Update(ctx context.Context, id string, update ProfileUpdate) error {
	sets := []string{"updated_at = now()"}
	args := []any{}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if update.Username != nil {
		appendSet("username", *update.Username)
	}
	if update.FullName != nil {
		appendSet("full_name", *update.FullName)
	}
	if update.AvatarURL != nil {
		appendSet("avatar_url", *update.AvatarURL)
	}
	if update.Bio != nil {
		appendSet("bio", *update.Bio)
	}

	args = append(args, id)
	query := `UPDATE profiles SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
