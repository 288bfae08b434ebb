// Package storage содержит файловую реализацию хранилища блобов.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"vibenotes/internal/notes/domain/entities"
)

// ResolveUnderRoot разрешает относительный путь из метаданных внутрь
// корневого каталога хранилища. Кандидат нормализуется, присоединяется к
// корню, и результат обязан оставаться под корнем. Пустые кандидаты,
// абсолютные пути и любые комбинации "../" отклоняются с
// entities.ErrPathRejected; отклоненный путь никогда не достигает
// файловой системы.
func ResolveUnderRoot(root, candidate string) (string, error) {
	if candidate == "" {
		return "", fmt.Errorf("empty path: %w", entities.ErrPathRejected)
	}
	if filepath.IsAbs(candidate) {
		return "", fmt.Errorf("absolute path %q: %w", candidate, entities.ErrPathRejected)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving storage root %q: %w", root, entities.ErrPathRejected)
	}

	resolved := filepath.Join(absRoot, filepath.Clean(candidate))

	rel, err := filepath.Rel(absRoot, resolved)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes storage root: %w", candidate, entities.ErrPathRejected)
	}

	return resolved, nil
}
