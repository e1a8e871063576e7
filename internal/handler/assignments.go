package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
	"github.com/aeropista-dev/ground-ops/backend/internal/scheduler"
	amqp "github.com/rabbitmq/amqp091-go"
)

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID  int64      `json:"employeeId" validate:"required,gt=0"`
		OperationID int64      `json:"operationId" validate:"required,gt=0"`
		Function    string     `json:"function" validate:"max=100"`
		StartTime   *time.Time `json:"startTime" validate:"required_with=EndTime"`
		EndTime     *time.Time `json:"endTime" validate:"required_with=StartTime"`
		CostRate    float64    `json:"costRate" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	op, err := h.repository.GetOperationByID(r.Context(), req.OperationID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	// 没有指定时间段时使用作业本身的窗口
	window := op.Window(h.scheduler.Parameters().DefaultOperationDuration)
	if req.StartTime != nil && req.EndTime != nil {
		window = domain.TimeWindow{Start: *req.StartTime, End: *req.EndTime}
	}

	validation, err := h.scheduler.ValidateAssignment(r.Context(), callerFrom(r), scheduler.AssignmentRequest{
		EmployeeID:  req.EmployeeID,
		OperationID: req.OperationID,
		Window:      window,
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}
	if !validation.Valid {
		h.domainError(w, r, domain.NewValidationError(validation.Reasons))
		return
	}

	// 预检通过后仍可能与并发请求冲突，由存储层在事务内再次检查
	a := &domain.Assignment{
		EmployeeID:  req.EmployeeID,
		OperationID: req.OperationID,
		Function:    req.Function,
		StartTime:   window.Start,
		EndTime:     window.End,
		CostRate:    req.CostRate,
		Status:      domain.AssignmentScheduled,
	}
	if err := h.repository.CreateAssignment(r.Context(), a); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.notifyAssignmentCreated(r, a, op)

	h.writeJSON(w, r, http.StatusCreated, Response{
		Success: true,
		Message: "Asignación creada",
		Data:    a,
	})
}

func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)
	filter := domain.AssignmentFilter{}

	if param := r.URL.Query().Get("employeeId"); param != "" {
		employeeID, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "ID de empleado inválido")
			return
		}
		filter.EmployeeIDs = []int64{employeeID}
	}
	if param := r.URL.Query().Get("operationId"); param != "" {
		operationID, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "ID de operación inválido")
			return
		}
		filter.OperationID = &operationID
	}

	// 普通员工只能看到自己的分配
	if !caller.Role.CanQueryAnyOperation() {
		if len(filter.EmployeeIDs) > 0 && filter.EmployeeIDs[0] != caller.EmployeeID {
			h.errorResponse(w, r, http.StatusForbidden, "Solo puede consultar sus propias asignaciones")
			return
		}
		filter.EmployeeIDs = []int64{caller.EmployeeID}
	}

	assignments, err := h.repository.ListAssignments(r.Context(), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Asignaciones obtenidas", assignments)
}

func (h *Handler) UpdateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	a := r.Context().Value(AssignmentCtx).(*domain.Assignment)

	var req struct {
		Status domain.AssignmentStatus `json:"status" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !req.Status.Valid() {
		h.errorResponse(w, r, http.StatusBadRequest, "Estado de asignación desconocido")
		return
	}
	if a.Status.Terminal() {
		h.errorResponse(w, r, http.StatusConflict, "La asignación ya está finalizada")
		return
	}

	// 状态变更不重新校验冲突，取消的分配会释放员工的时间段
	a.Status = req.Status
	if err := h.repository.UpdateAssignmentStatus(r.Context(), a); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusConflict, "La asignación fue modificada, intente de nuevo")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.publishEvent(r, domain.SchedulingEvent{
		Type:       domain.EventAssignmentStatusChanged,
		EmployeeID: a.EmployeeID,
		Assignment: a,
		OccurredAt: time.Now(),
	})

	h.successResponse(w, r, "Estado actualizado", a)
}

// notifyAssignmentCreated 分配已经提交，通知失败只记录日志
func (h *Handler) notifyAssignmentCreated(r *http.Request, a *domain.Assignment, op *domain.Operation) {
	h.publishEvent(r, domain.SchedulingEvent{
		Type:       domain.EventAssignmentCreated,
		EmployeeID: a.EmployeeID,
		Assignment: a,
		OccurredAt: time.Now(),
	})

	employee, err := h.repository.GetEmployeeByID(r.Context(), a.EmployeeID)
	if err != nil {
		slog.Warn("无法获取员工信息，跳过邮件通知", "request_id", requestIDFrom(r), "assignment_id", a.ID, "error", err)
		return
	}

	stationCode := ""
	if op.StationID != nil {
		if station, err := h.repository.GetStationByID(r.Context(), *op.StationID); err == nil {
			stationCode = station.Code
		}
	}

	mailMessage := domain.MailMessage{
		Type: domain.MailTypeAssignmentCreated,
		To:   employee.Email,
		Data: domain.AssignmentCreatedMailData{
			FullName:     employee.FullName,
			FlightNumber: op.FlightNumber,
			StationCode:  stationCode,
			Function:     a.Function,
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
		},
	}

	// 序列化邮件
	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		slog.Warn("序列化邮件失败", "request_id", requestIDFrom(r), "assignment_id", a.ID, "error", err)
		return
	}

	// 发送邮件到消息队列中
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.Queue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		slog.Warn("邮件发布失败", "request_id", requestIDFrom(r), "assignment_id", a.ID, "error", err)
	}
}

func (h *Handler) publishEvent(r *http.Request, event domain.SchedulingEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("序列化事件失败", "request_id", requestIDFrom(r), "type", event.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.events.Publish(ctx, domain.SchedulingEventsChannel, payload).Err(); err != nil {
		slog.Warn("事件发布失败", "request_id", requestIDFrom(r), "type", event.Type, "error", err)
	}
}
