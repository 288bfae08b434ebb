// Package services содержит доменные сервисы сервиса заметок.
package services

import (
	"vibenotes/internal/notes/domain/entities"
)

// AccessLevel определяет уровень доступа запрашивающего к заметке.
type AccessLevel int

// Уровни доступа к заметке.
const (
	AccessDenied AccessLevel = iota
	AccessViewer
	AccessOwner
)

// Decide возвращает уровень доступа запрашивающего к заметке:
// владелец получает AccessOwner, любой аутентифицированный пользователь
// получает AccessViewer для публичной заметки, иначе AccessDenied.
// Мутирующие операции требуют AccessOwner, чтение - AccessOwner или AccessViewer.
func Decide(requesterID string, note *entities.Note) AccessLevel {
	if note == nil {
		return AccessDenied
	}
	if requesterID != "" && note.UserID == requesterID {
		return AccessOwner
	}
	if note.IsPublic {
		return AccessViewer
	}
	return AccessDenied
}

// CanRead сообщает, разрешено ли чтение для данного уровня доступа.
func (l AccessLevel) CanRead() bool {
	return l == AccessOwner || l == AccessViewer
}

// CanMutate сообщает, разрешено ли изменение для данного уровня доступа.
func (l AccessLevel) CanMutate() bool {
	return l == AccessOwner
}
