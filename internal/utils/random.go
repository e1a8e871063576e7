package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/aeropista-dev/ground-ops/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var commonFirstNames = []string{
	"José", "María", "Juan", "Lucía", "Andrés", "Sofía", "Miguel", "Valentina", "Ángel", "Camila",
	"Jesús", "Mónica", "Raúl", "Inés", "Sebastián", "Paula", "Martín", "Verónica", "Óscar", "Elena",
}

var commonSurnames = []string{
	"García", "Martínez", "López", "Hernández", "González", "Pérez", "Rodríguez", "Sánchez", "Ramírez", "Cruz",
	"Flores", "Gómez", "Díaz", "Reyes", "Morales", "Jiménez", "Ruiz", "Núñez", "Muñoz", "Ortiz",
}

func GenerateRandomSpanishName() string {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	second := commonSurnames[rand.Intn(len(commonSurnames))]
	return first + " " + surname + " " + second
}

// RemoveAccents 去掉重音符号，ñ 也会变成 n
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

var digits = "0123456789"

// GenerateUsernameFromSpanishName 取名字首字母加第一个姓氏，再补几位随机数字
func GenerateUsernameFromSpanishName(fullName string) string {
	parts := strings.Fields(strings.ToLower(RemoveAccents(fullName)))
	username := ""
	if len(parts) > 0 {
		username += parts[0][:1]
	}
	if len(parts) > 1 {
		username += parts[1]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// 普通员工占大多数
var roleWeights = []domain.Role{
	domain.RoleEmployee, domain.RoleEmployee, domain.RoleEmployee, domain.RoleEmployee,
	domain.RoleEmployee, domain.RoleEmployee, domain.RoleEmployee, domain.RoleSupervisor,
}

func GenerateRandomRole() domain.Role {
	return roleWeights[rand.Intn(len(roleWeights))]
}

func GenerateRandomCategory() domain.Category {
	return domain.Categories[rand.Intn(len(domain.Categories))]
}

var certifications = []string{"AVSEC", "MERCANCIAS_PELIGROSAS", "CONDUCCION_PLATAFORMA", "COMBUSTIBLE", "PRIMEROS_AUXILIOS"}

// GenerateRandomSubset 使用 Fisher-Yates 洗牌算法生成随机子集，可能为空
func GenerateRandomSubset(arr []string) []string {
	arrCopy := append([]string{}, arr...) // 复制数组，避免修改原数组

	for i := len(arrCopy) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	return arrCopy[:rand.Intn(len(arrCopy)+1)]
}

func GenerateRandomEmployee(password string, emailDomainName string, stationID *int64) (*domain.Employee, error) {
	fullName := GenerateRandomSpanishName()
	username := GenerateUsernameFromSpanishName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	certs := GenerateRandomSubset(certifications)
	maxDaily := float64(8 + rand.Intn(5))
	maxWeekly := float64(40 + 4*rand.Intn(3))

	employee := &domain.Employee{
		Username:       username,
		PasswordHash:   string(passwordHash),
		FullName:       fullName,
		Email:          username + "@" + emailDomainName,
		Role:           GenerateRandomRole(),
		Category:       GenerateRandomCategory(),
		Skills:         GenerateRandomSubset(certs),
		Certifications: certs,
		StationID:      stationID,
		MaxDailyHours:  &maxDaily,
		MaxWeeklyHours: &maxWeekly,
	}

	return employee, nil
}

var airlinePrefixes = []string{"AM", "VB", "Y4", "IB", "AV"}

func GenerateRandomFlightNumber() string {
	return fmt.Sprintf("%s%d", airlinePrefixes[rand.Intn(len(airlinePrefixes))], 100+rand.Intn(9900))
}

// GenerateRandomOperation 在 from 之后 days 天内随机生成一次作业，时间取整到 5 分钟
func GenerateRandomOperation(stationID int64, from time.Time, days int) *domain.Operation {
	offset := time.Duration(rand.Intn(days*24*12)) * 5 * time.Minute
	opType := domain.OperationArrival
	if rand.Intn(2) == 1 {
		opType = domain.OperationDeparture
	}

	op := &domain.Operation{
		FlightNumber:   GenerateRandomFlightNumber(),
		ScheduledTime:  from.Truncate(5 * time.Minute).Add(offset),
		Type:           opType,
		PassengerCount: int32(50 + rand.Intn(250)),
		StationID:      &stationID,
	}

	// 大约一半的作业使用默认时长
	if rand.Intn(2) == 1 {
		minutes := int32(45 + 15*rand.Intn(8))
		op.EstimatedMinutes = &minutes
	}

	return op
}
