package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicateFavorite は favorites の unique(user_id, prompt_id) 制約違反を表す。
var ErrDuplicateFavorite = errors.New("favorite already exists")

// ErrFavoriteNotFound は削除対象のお気に入りが存在しないことを表す。
var ErrFavoriteNotFound = errors.New("favorite not found")

// uniqueViolationCode はPostgreSQLの一意制約違反のSQLSTATEコード。
const uniqueViolationCode = "23505"

// isUniqueViolation はエラーが一意制約違反かどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
