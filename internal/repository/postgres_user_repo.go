package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/promptbox/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, phone, password_hash, username, full_name, is_active, created_at, updated_at, last_login`

// scanUser は1行をmodel.Userに読み取る。
func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var lastLogin sql.NullTime

	err := row.Scan(
		&user.ID, &user.Phone, &user.PasswordHash, &user.Username,
		&user.FullName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
		&lastLogin,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}
	return user, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByPhone は電話番号でユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone = $1`,
		phone,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}
	return user, nil
}

// FindActiveByPhone は電話番号で有効なユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindActiveByPhone(ctx context.Context, phone string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone = $1 AND is_active = TRUE`,
		phone,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find active user by phone: %w", err)
	}
	return user, nil
}

// FindByUsername はユーザー名でユーザーを検索する。
// excludeIDが空でない場合、そのIDのユーザーは除外する。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username, excludeID string) (*model.User, error) {
	var row *sql.Row
	if excludeID != "" {
		row = r.db.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM users WHERE username = $1 AND id <> $2`,
			username, excludeID,
		)
	} else {
		row = r.db.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM users WHERE username = $1`,
			username,
		)
	}

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// Create はユーザーを作成する。profilesレコードはDBトリガーで自動作成される。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, phone, password_hash, username, full_name, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Phone, user.PasswordHash, user.Username,
		user.FullName, user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateUsername はユーザー名を更新する。
func (r *PostgresUserRepo) UpdateUsername(ctx context.Context, id, username string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = $1, updated_at = now() WHERE id = $2`,
		username, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}
	return nil
}

// UpdateLastLogin は最終ログイン日時を現在時刻に更新する。
func (r *PostgresUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
