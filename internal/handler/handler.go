package handler

import (
	"context"

	"github.com/aeropista-dev/ground-ops/backend/internal/config"
	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
	"github.com/aeropista-dev/ground-ops/backend/internal/scheduler"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// Repository 是 handler 需要的全部持久化操作，由 *repository.Repository 实现
type Repository interface {
	scheduler.Store
	GetEmployeeByUsername(ctx context.Context, username string) (*domain.Employee, error)
	GetAssignmentByID(ctx context.Context, id int64) (*domain.Assignment, error)
	CreateAssignment(ctx context.Context, a *domain.Assignment) error
	UpdateAssignmentStatus(ctx context.Context, a *domain.Assignment) error
	Ping(ctx context.Context) error
}

// MailPublisher 由 *amqp.Channel 实现
type MailPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// EventPublisher 由 *redis.Client 实现
type EventPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  Repository
	scheduler   *scheduler.Scheduler
	translator  ut.Translator
	mailChannel MailPublisher
	events      EventPublisher

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Repository, sched *scheduler.Scheduler, mailCh MailPublisher, events EventPublisher) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	es := es.New()
	uni := ut.New(es, es)
	trans, _ := uni.GetTranslator("es")
	if err := es_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		scheduler:   sched,
		translator:  trans,
		mailChannel: mailCh,
		events:      events,

		Mux: chi.NewRouter(),
	}, nil
}

var supervisorOrAbove = []domain.Role{domain.RoleSupervisor, domain.RoleManager, domain.RolePresident, domain.RoleAdmin}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Healthz)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.caller)

		r.Route("/scheduling", func(r chi.Router) {
			r.With(h.RequiredRole(supervisorOrAbove)).With(h.operation).Get("/available-staff/{operationID}", h.GetAvailableStaff)
			r.With(h.RequiredRole(supervisorOrAbove)).With(h.operation).Get("/optimize-staffing/{operationID}", h.OptimizeStaffing)
			r.Post("/validate-assignment", h.ValidateAssignment) // 员工只能校验自己的分配，由调度器判断
			r.Post("/check-availability", h.CheckAvailability)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.With(h.RequiredRole(supervisorOrAbove)).Post("/", h.CreateAssignment)
			r.Get("/", h.GetAssignments)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.RequiredRole(supervisorOrAbove))
				r.Use(h.assignment)
				r.Patch("/status", h.UpdateAssignmentStatus)
			})
		})
	})
}
