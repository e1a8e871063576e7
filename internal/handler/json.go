package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
	"github.com/go-playground/validator/v10"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "request_id", requestIDFrom(r), "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "Error interno del servidor", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		h.errorResponse(w, r, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}

	h.errorResponse(w, r, http.StatusBadRequest, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "Error interno del servidor",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// rejection 是分配被拒绝时返回的数据，并发冲突与预检失败使用同一格式
type rejection struct {
	Valid   bool     `json:"valid"`
	Reasons []string `json:"reasons"`
}

// domainError 将调度错误映射为 HTTP 状态码，未知错误按内部错误处理
func (h *Handler) domainError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		h.internalServerError(w, r, err)
		return
	}

	switch domainErr.Kind {
	case domain.KindNotFound:
		h.errorResponse(w, r, http.StatusNotFound, domainErr.Detail)
	case domain.KindMissingStation:
		h.errorResponse(w, r, http.StatusUnprocessableEntity, domainErr.Detail)
	case domain.KindValidation, domain.KindConflict:
		reasons := domainErr.Reasons
		if len(reasons) == 0 {
			reasons = []string{domainErr.Detail}
		}
		h.writeJSON(w, r, http.StatusUnprocessableEntity, Response{
			Success: false,
			Message: "La asignación no es válida",
			Data:    rejection{Valid: false, Reasons: reasons},
		})
	case domain.KindForbidden:
		h.errorResponse(w, r, http.StatusForbidden, domainErr.Detail)
	case domain.KindConfiguration:
		h.internalServerError(w, r, err)
	default:
		h.internalServerError(w, r, err)
	}
}
