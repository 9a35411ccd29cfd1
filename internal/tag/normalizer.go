// Package tag はタグ名の正規化（共有タグレコードへの解決）を提供する。
package tag

import (
	"context"
	"fmt"
	"strings"

	"github.com/hitoshi/promptbox/internal/repository"
)

// DefaultColor は新規タグのデフォルト色。
const DefaultColor = "#3B82F6"

// Normalizer はタグ名を共有タグIDに解決する。
// 同名タグが存在すればそのIDを返し、存在しなければ作成する。
type Normalizer struct {
	tags repository.TagRepository
}

// NewNormalizer はNormalizerを生成する。
func NewNormalizer(tags repository.TagRepository) *Normalizer {
	return &Normalizer{tags: tags}
}

// Resolve はタグ名をタグIDに解決する。存在しない場合は新規作成する。
// 解決はDBのUPSERTで原子的に行われるため、同名の同時解決でも
// 常に同一のタグIDが返る。colorが空の場合はDefaultColorを使用する。
func (n *Normalizer) Resolve(ctx context.Context, name, color string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("tag name is required")
	}
	if color == "" {
		color = DefaultColor
	}

	id, err := n.tags.UpsertByName(ctx, name, color)
	if err != nil {
		return "", fmt.Errorf("failed to resolve tag %q: %w", name, err)
	}
	return id, nil
}
