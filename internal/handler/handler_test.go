package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aeropista-dev/ground-ops/backend/internal/config"
	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
	"github.com/aeropista-dev/ground-ops/backend/internal/scheduler"
	"github.com/golang-jwt/jwt/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

const testSecret = "secreto-de-pruebas"

var base = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour int) time.Time {
	return base.Add(time.Duration(hour) * time.Hour)
}

// ═══════════════════════════════════════════════════════════
// 内存仓库
// ═══════════════════════════════════════════════════════════

type fakeRepository struct {
	mu          sync.Mutex
	employees   map[int64]*domain.Employee
	stations    map[int64]*domain.Station
	operations  map[int64]*domain.Operation
	assignments []*domain.Assignment
	nextID      int64

	// beforeCommit 在进入串行区之前调用，用于让并发请求先全部通过预检
	beforeCommit func()
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		employees:  make(map[int64]*domain.Employee),
		stations:   make(map[int64]*domain.Station),
		operations: make(map[int64]*domain.Operation),
		nextID:     1000,
	}
}

func (f *fakeRepository) GetEmployeeByID(_ context.Context, id int64) (*domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok {
		return nil, domain.NewNotFoundError("empleado", id)
	}
	return e, nil
}

func (f *fakeRepository) GetEmployeeByUsername(_ context.Context, username string) (*domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.employees {
		if e.Username == username {
			return e, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepository) ListEmployees(_ context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	employees := make([]*domain.Employee, 0)
	for _, e := range f.employees {
		if filter.StationID != nil && !e.AtStation(*filter.StationID) {
			continue
		}
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		if filter.ActiveOnly && !e.IsActive {
			continue
		}
		employees = append(employees, e)
	}
	return employees, nil
}

func (f *fakeRepository) GetStationByID(_ context.Context, id int64) (*domain.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stations[id]
	if !ok {
		return nil, domain.NewNotFoundError("estación", id)
	}
	return s, nil
}

func (f *fakeRepository) GetOperationByID(_ context.Context, id int64) (*domain.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	op, ok := f.operations[id]
	if !ok {
		return nil, domain.NewNotFoundError("operación", id)
	}
	return op, nil
}

func (f *fakeRepository) ListAssignments(_ context.Context, filter domain.AssignmentFilter) ([]*domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	assignments := make([]*domain.Assignment, 0)
	for _, a := range f.assignments {
		if len(filter.EmployeeIDs) > 0 && !slices.Contains(filter.EmployeeIDs, a.EmployeeID) {
			continue
		}
		if filter.OperationID != nil && a.OperationID != *filter.OperationID {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, a.Status) {
			continue
		}
		if filter.EndsAfter != nil && !a.EndTime.After(*filter.EndsAfter) {
			continue
		}
		copied := *a
		assignments = append(assignments, &copied)
	}
	return assignments, nil
}

func (f *fakeRepository) GetAssignmentByID(_ context.Context, id int64) (*domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assignments {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.NewNotFoundError("asignación", id)
}

// CreateAssignment 与数据库事务一样在锁内复查重叠
func (f *fakeRepository) CreateAssignment(_ context.Context, a *domain.Assignment) error {
	if f.beforeCommit != nil {
		f.beforeCommit()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.assignments {
		if existing.EmployeeID == a.EmployeeID && existing.Status.BlocksSchedule() && existing.Window().Overlaps(a.Window()) {
			return domain.NewConflictError("solapamiento detectado al confirmar")
		}
	}

	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	a.Version = 1
	copied := *a
	f.assignments = append(f.assignments, &copied)
	return nil
}

func (f *fakeRepository) UpdateAssignmentStatus(_ context.Context, a *domain.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.assignments {
		if existing.ID == a.ID {
			if existing.Version != a.Version {
				return sql.ErrNoRows
			}
			existing.Status = a.Status
			existing.Version++
			a.Version = existing.Version
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeRepository) Ping(context.Context) error {
	return nil
}

func (f *fakeRepository) committedFor(employeeID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, a := range f.assignments {
		if a.EmployeeID == employeeID {
			count++
		}
	}
	return count
}

type fakeMailPublisher struct {
	mu       sync.Mutex
	messages []amqp.Publishing
	keys     []string
}

func (p *fakeMailPublisher) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	p.keys = append(p.keys, key)
	return nil
}

type fakeEventPublisher struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
}

func (p *fakeEventPublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels = append(p.channels, channel)
	if b, ok := message.([]byte); ok {
		p.payloads = append(p.payloads, b)
	}
	return redis.NewIntResult(1, nil)
}

// ═══════════════════════════════════════════════════════════
// 测试环境
// ═══════════════════════════════════════════════════════════

type testEnv struct {
	handler *Handler
	repo    *fakeRepository
	mail    *fakeMailPublisher
	events  *fakeEventPublisher
}

const (
	supervisorID = 900
	employeeID   = 1
)

func newEmployee(id int64, role domain.Role, stationID int64) *domain.Employee {
	return &domain.Employee{
		ID:             id,
		Username:       "usuario" + strconv.FormatInt(id, 10),
		FullName:       "Empleado " + strconv.FormatInt(id, 10),
		Email:          "usuario" + strconv.FormatInt(id, 10) + "@aeropista.example",
		Role:           role,
		Category:       domain.CategoryRamp,
		Skills:         []string{"AVSEC"},
		Certifications: []string{"AVSEC"},
		StationID:      &stationID,
		IsActive:       true,
		Version:        1,
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newFakeRepository()
	stationID := int64(1)
	repo.stations[1] = &domain.Station{
		ID:                     1,
		Code:                   "RMP1",
		Name:                   "Rampa Norte",
		MinimumStaff:           2,
		MaximumStaff:           6,
		RequiredCertifications: []string{"AVSEC"},
		RequiredFunctions:      []string{"Jefe de rampa", "Equipaje"},
		IsActive:               true,
	}
	repo.operations[100] = &domain.Operation{
		ID:             100,
		FlightNumber:   "AP100",
		ScheduledTime:  at(10),
		Type:           domain.OperationDeparture,
		PassengerCount: 150,
		StationID:      &stationID,
		Status:         domain.OperationScheduled,
	}
	repo.operations[200] = &domain.Operation{
		ID:             200,
		FlightNumber:   "AP200",
		ScheduledTime:  at(12),
		Type:           domain.OperationArrival,
		PassengerCount: 90,
		Status:         domain.OperationScheduled,
	}
	for id := int64(1); id <= 4; id++ {
		repo.employees[id] = newEmployee(id, domain.RoleEmployee, 1)
	}
	repo.employees[supervisorID] = newEmployee(supervisorID, domain.RoleSupervisor, 1)

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.JWT.Expiration = 1
	cfg.RabbitMQ.Queue = "email_queue"
	cfg.RabbitMQ.PublishTimeout = 1
	cfg.Redis.PublishTimeout = 1

	params := &scheduler.Parameters{
		StaffingRatio:            50,
		SkillMatchWeight:         3,
		CertificationBonus:       1,
		WorkloadPenalty:          2,
		DefaultOperationDuration: 2 * time.Hour,
		Location:                 time.UTC,
	}
	sched, err := scheduler.New(params, repo)
	if err != nil {
		t.Fatalf("scheduler.New: %v", err)
	}

	mail := &fakeMailPublisher{}
	events := &fakeEventPublisher{}
	h, err := NewHandler(cfg, repo, sched, mail, events)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	h.RegisterRoutes()

	return &testEnv{handler: h, repo: repo, mail: mail, events: events}
}

func tokenFor(t *testing.T, id int64, role domain.Role) *http.Cookie {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Subject:   strconv.FormatInt(id, 10),
		},
	})
	ss, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return &http.Cookie{Name: tokenCookieName, Value: ss}
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (env *testEnv) record(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	payload := []byte(nil)
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.handler.Mux.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) (int, testResponse) {
	t.Helper()

	rec := env.record(t, method, path, body, cookie)

	var resp testResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Errorf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, resp
}

func decodeData[T any](t *testing.T, resp testResponse) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(resp.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", resp.Data, err)
	}
	return v
}
