package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
	"github.com/aeropista-dev/ground-ops/backend/internal/scheduler"
)

// staffAvailability 是带可用性标记的员工信息
type staffAvailability struct {
	*domain.Employee
	Available bool                         `json:"available"`
	Status    scheduler.AvailabilityStatus `json:"status"`
	Reasons   []string                     `json:"reasons"`
}

func newStaffAvailability(entry scheduler.AvailabilityEntry) staffAvailability {
	reasons := entry.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return staffAvailability{
		Employee:  entry.Employee,
		Available: entry.Available,
		Status:    entry.Status,
		Reasons:   reasons,
	}
}

func (h *Handler) GetAvailableStaff(w http.ResponseWriter, r *http.Request) {
	operationID := r.Context().Value(OperationCtx).(int64)

	// 可选的站点和类别预筛选
	filter := domain.EmployeeFilter{}
	if param := r.URL.Query().Get("stationId"); param != "" {
		stationID, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "ID de estación inválido")
			return
		}
		filter.StationID = &stationID
	}
	if param := r.URL.Query().Get("category"); param != "" {
		category := domain.Category(param)
		if !category.Valid() {
			h.errorResponse(w, r, http.StatusBadRequest, "Categoría desconocida")
			return
		}
		filter.Category = &category
	}

	entries, err := h.scheduler.AvailableStaff(r.Context(), callerFrom(r), operationID, filter)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	staff := make([]staffAvailability, 0, len(entries))
	for _, entry := range entries {
		staff = append(staff, newStaffAvailability(entry))
	}

	h.successResponse(w, r, "Personal disponible obtenido", staff)
}

func (h *Handler) ValidateAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID  int64     `json:"employeeId" validate:"required,gt=0"`
		OperationID int64     `json:"operationId" validate:"required,gt=0"`
		StartTime   time.Time `json:"startTime" validate:"required"`
		EndTime     time.Time `json:"endTime" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	validation, err := h.scheduler.ValidateAssignment(r.Context(), callerFrom(r), scheduler.AssignmentRequest{
		EmployeeID:  req.EmployeeID,
		OperationID: req.OperationID,
		Window:      domain.TimeWindow{Start: req.StartTime, End: req.EndTime},
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "Validación completada", validation)
}

func (h *Handler) OptimizeStaffing(w http.ResponseWriter, r *http.Request) {
	operationID := r.Context().Value(OperationCtx).(int64)

	plan, err := h.scheduler.OptimizeStaffing(r.Context(), callerFrom(r), operationID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "Plan de personal generado", plan)
}

func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserIDs   []int64   `json:"userIds" validate:"required,min=1,dive,gt=0"`
		StartTime time.Time `json:"startTime" validate:"required"`
		EndTime   time.Time `json:"endTime" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	window := domain.TimeWindow{Start: req.StartTime, End: req.EndTime}
	entries, err := h.scheduler.CheckAvailability(r.Context(), callerFrom(r), req.UserIDs, window)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	result := make(map[int64]staffAvailability, len(entries))
	for id, entry := range entries {
		result[id] = newStaffAvailability(entry)
	}

	h.successResponse(w, r, "Disponibilidad consultada", result)
}
