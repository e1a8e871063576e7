package seed

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
)

func TestParseStations(t *testing.T) {
	stations, err := ParseStations(bytes.NewReader(stationsCSV))
	if err != nil {
		t.Fatalf("ParseStations: %v", err)
	}
	if len(stations) != 6 {
		t.Fatalf("len = %d, want 6", len(stations))
	}

	rmp := stations[0]
	if rmp.Code != "RMP1" || rmp.MinimumStaff != 2 || rmp.MaximumStaff != 6 {
		t.Errorf("RMP1 = %+v", rmp)
	}
	if len(rmp.RequiredFunctions) != 3 || rmp.RequiredFunctions[0] != "Jefe de rampa" {
		t.Errorf("functions = %v", rmp.RequiredFunctions)
	}

	cmb := stations[2]
	if !cmb.EnforceCertifications || len(cmb.RequiredCertifications) != 2 {
		t.Errorf("CMB1 = %+v", cmb)
	}

	lmp := stations[5]
	if lmp.RequiredFunctions == nil || len(lmp.RequiredFunctions) != 0 {
		t.Errorf("empty functions = %#v, want empty slice", lmp.RequiredFunctions)
	}
}

func TestParseStationsRejectsBadRows(t *testing.T) {
	header := "codigo,nombre,minimo,maximo,certificaciones,funciones,exigir_certificaciones\n"
	tests := map[string]string{
		"min not a number": "A,Estación,dos,4,,,false\n",
		"max below min":    "A,Estación,5,4,,,false\n",
		"bad bool":         "A,Estación,1,4,,,quizá\n",
		"missing column":   "A,Estación,1,4,,\n",
	}
	for name, row := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseStations(strings.NewReader(header + row)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

type memoryStore struct {
	stations   []*domain.Station
	employees  []*domain.Employee
	operations []*domain.Operation
	takenAll   bool
}

func (m *memoryStore) CreateStation(_ context.Context, s *domain.Station) error {
	s.ID = int64(len(m.stations) + 1)
	m.stations = append(m.stations, s)
	return nil
}

func (m *memoryStore) CreateEmployee(_ context.Context, e *domain.Employee) error {
	e.ID = int64(len(m.employees) + 1)
	m.employees = append(m.employees, e)
	return nil
}

func (m *memoryStore) CheckEmployeeUsernameExists(_ context.Context, username string) (bool, error) {
	if m.takenAll {
		return true, nil
	}
	for _, e := range m.employees {
		if e.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) CreateOperation(_ context.Context, op *domain.Operation) error {
	op.ID = int64(len(m.operations) + 1)
	m.operations = append(m.operations, op)
	return nil
}

func TestSeedDemoData(t *testing.T) {
	store := &memoryStore{}
	opts := Options{
		Password:            "cambiar123",
		EmailDomain:         "aeropista.example",
		EmployeesPerStation: 2,
		OperationsPerDay:    1,
		Days:                2,
		From:                time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	if err := SeedDemoData(context.Background(), store, opts); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}
	if len(store.stations) != 6 || len(store.employees) != 12 || len(store.operations) != 12 {
		t.Fatalf("got %d stations, %d employees, %d operations",
			len(store.stations), len(store.employees), len(store.operations))
	}

	stations := make(map[int64]*domain.Station)
	for _, s := range store.stations {
		stations[s.ID] = s
	}
	for _, e := range store.employees {
		station := stations[*e.StationID]
		if missing := e.MissingCertifications(station.RequiredCertifications); len(missing) != 0 {
			t.Errorf("employee %s at %s misses %v", e.Username, station.Code, missing)
		}
		if !strings.HasSuffix(e.Email, "@aeropista.example") {
			t.Errorf("email = %q", e.Email)
		}
	}
}

func TestGenerateUniqueEmployee(t *testing.T) {
	store := &memoryStore{}
	stationID := int64(1)

	employee, err := GenerateUniqueEmployee(context.Background(), store, "cambiar123", "aeropista.example", &stationID)
	if err != nil {
		t.Fatalf("GenerateUniqueEmployee: %v", err)
	}
	if employee.Username == "" || *employee.StationID != 1 {
		t.Errorf("employee = %+v", employee)
	}

	store.takenAll = true
	if _, err := GenerateUniqueEmployee(context.Background(), store, "cambiar123", "aeropista.example", &stationID); err == nil {
		t.Error("expected error when every username is taken")
	}
}
