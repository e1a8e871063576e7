package handler

import (
	"net/http"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

type ContextKey string

var (
	RequestIDCtx  ContextKey = "requestID"
	SubCtxKey     ContextKey = "sub"
	CallerCtx     ContextKey = "caller"
	OperationCtx  ContextKey = "operation"
	AssignmentCtx ContextKey = "assignment"
)

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(RequestIDCtx).(string)
	return id
}

func callerFrom(r *http.Request) domain.Caller {
	return r.Context().Value(CallerCtx).(domain.Caller)
}
