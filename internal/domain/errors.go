package domain

import (
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindNotFound       ErrorKind = "not_found"
	KindMissingStation ErrorKind = "missing_station"
	KindValidation     ErrorKind = "validation"
	KindConflict       ErrorKind = "conflict"
	KindConfiguration  ErrorKind = "configuration"
	KindForbidden      ErrorKind = "forbidden"
)

// Error 是调度核心对外暴露的唯一错误类型，使用 errors.Is 按 Kind 匹配
type Error struct {
	Kind    ErrorKind
	Detail  string
	Reasons []string
}

func (e *Error) Error() string {
	if len(e.Reasons) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Detail, strings.Join(e.Reasons, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound       = &Error{Kind: KindNotFound, Detail: "recurso no encontrado"}
	ErrMissingStation = &Error{Kind: KindMissingStation, Detail: "la operación no tiene estación asignada"}
	ErrValidation     = &Error{Kind: KindValidation, Detail: "la asignación no es válida"}
	ErrConflict       = &Error{Kind: KindConflict, Detail: "conflicto de horario concurrente"}
	ErrConfiguration  = &Error{Kind: KindConfiguration, Detail: "configuración de planificación inválida"}
	ErrForbidden      = &Error{Kind: KindForbidden, Detail: "permisos insuficientes"}
)

// ConcurrentConflictReason 是并发提交被数据库拒绝时返回给调用者的原因
const ConcurrentConflictReason = "Conflicto de horario (concurrente)"

func NewNotFoundError(entity string, id int64) error {
	return &Error{Kind: KindNotFound, Detail: fmt.Sprintf("%s %d no existe", entity, id)}
}

func NewMissingStationError(operationID int64) error {
	return &Error{Kind: KindMissingStation, Detail: fmt.Sprintf("la operación %d no tiene estación asignada", operationID)}
}

func NewValidationError(reasons []string) error {
	return &Error{Kind: KindValidation, Detail: "la asignación no es válida", Reasons: reasons}
}

func NewConflictError(detail string) error {
	return &Error{Kind: KindConflict, Detail: detail, Reasons: []string{ConcurrentConflictReason}}
}

func NewConfigurationError(detail string) error {
	return &Error{Kind: KindConfiguration, Detail: detail}
}

func NewForbiddenError(detail string) error {
	return &Error{Kind: KindForbidden, Detail: detail}
}
