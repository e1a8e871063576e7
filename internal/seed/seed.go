package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
	"github.com/aeropista-dev/ground-ops/backend/internal/utils"
)

//go:embed data/stations.csv
var stationsCSV []byte

// Store 是写入演示数据所需的最小仓储接口
type Store interface {
	CreateStation(ctx context.Context, s *domain.Station) error
	CreateEmployee(ctx context.Context, e *domain.Employee) error
	CreateOperation(ctx context.Context, op *domain.Operation) error
	CheckEmployeeUsernameExists(ctx context.Context, username string) (bool, error)
}

const maxUsernameAttempts = 5

// GenerateUniqueEmployee 随机用户名可能与已有员工重复，重复时重新生成
func GenerateUniqueEmployee(ctx context.Context, store Store, password string, emailDomain string, stationID *int64) (*domain.Employee, error) {
	for i := 0; i < maxUsernameAttempts; i++ {
		employee, err := utils.GenerateRandomEmployee(password, emailDomain, stationID)
		if err != nil {
			return nil, err
		}

		exists, err := store.CheckEmployeeUsernameExists(ctx, employee.Username)
		if err != nil {
			return nil, err
		}
		if !exists {
			return employee, nil
		}
	}

	return nil, fmt.Errorf("连续 %d 次生成的用户名都已存在", maxUsernameAttempts)
}

const stationColumns = 7

// ParseStations 读取站点 CSV，列表字段用 | 分隔，第一行是表头
func ParseStations(r io.Reader) ([]*domain.Station, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = stationColumns

	// 跳过表头
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	stations := []*domain.Station{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		minimum, err := strconv.ParseInt(record[2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("站点 %s 的最少人数非法: %w", record[0], err)
		}
		maximum, err := strconv.ParseInt(record[3], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("站点 %s 的最多人数非法: %w", record[0], err)
		}
		if minimum < 0 || maximum < minimum {
			return nil, fmt.Errorf("站点 %s 的人数范围非法: %d-%d", record[0], minimum, maximum)
		}
		enforce, err := strconv.ParseBool(record[6])
		if err != nil {
			return nil, fmt.Errorf("站点 %s 的证书开关非法: %w", record[0], err)
		}

		stations = append(stations, &domain.Station{
			Code:                   record[0],
			Name:                   record[1],
			MinimumStaff:           int32(minimum),
			MaximumStaff:           int32(maximum),
			RequiredCertifications: splitList(record[4]),
			RequiredFunctions:      splitList(record[5]),
			EnforceCertifications:  enforce,
		})
	}

	return stations, nil
}

func splitList(field string) []string {
	values := []string{}
	for _, v := range strings.Split(field, "|") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// Options 控制演示数据的规模
type Options struct {
	Password            string
	EmailDomain         string
	EmployeesPerStation int
	OperationsPerDay    int
	Days                int
	From                time.Time
}

// SeedDemoData 插入内置站点，并为每个站点生成员工和未来几天的航班作业
func SeedDemoData(ctx context.Context, store Store, opts Options) error {
	stations, err := ParseStations(bytes.NewReader(stationsCSV))
	if err != nil {
		return err
	}

	employees, operations := 0, 0
	for _, station := range stations {
		if err := store.CreateStation(ctx, station); err != nil {
			return fmt.Errorf("插入站点 %s 失败: %w", station.Code, err)
		}

		for i := 0; i < opts.EmployeesPerStation; i++ {
			employee, err := GenerateUniqueEmployee(ctx, store, opts.Password, opts.EmailDomain, &station.ID)
			if err != nil {
				return err
			}
			// 保证员工持有站点要求的证书，否则演示时推荐结果总是空的
			for _, cert := range station.RequiredCertifications {
				if !employee.HasCertification(cert) {
					employee.Certifications = append(employee.Certifications, cert)
				}
			}

			if err := store.CreateEmployee(ctx, employee); err != nil {
				slog.Warn("插入员工失败", slog.String("username", employee.Username), slog.String("error", err.Error()))
				continue
			}
			employees++
		}

		for i := 0; i < opts.OperationsPerDay*opts.Days; i++ {
			op := utils.GenerateRandomOperation(station.ID, opts.From, opts.Days)
			if err := store.CreateOperation(ctx, op); err != nil {
				return fmt.Errorf("插入作业 %s 失败: %w", op.FlightNumber, err)
			}
			operations++
		}
	}

	slog.Info("插入演示数据成功",
		slog.Int("stations", len(stations)),
		slog.Int("employees", employees),
		slog.Int("operations", operations),
	)

	return nil
}
