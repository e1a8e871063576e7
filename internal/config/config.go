package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aeropista-dev/ground-ops/backend/internal/scheduler"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Log         struct {
		Level string `env:"LEVEL" envDefault:"info"`
	} `envPrefix:"LOG_"`
	Server struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
		SerializationRetry int    `env:"SERIALIZATION_RETRY" envDefault:"3"`
	} `envPrefix:"DATABASE_"`
	InitialAdmin struct {
		Username string `env:"USERNAME" envDefault:"admin"`
		Password string `env:"PASSWORD,required"`
		FullName string `env:"FULL_NAME" envDefault:"Administrador"`
		Email    string `env:"EMAIL,required"`
	} `envPrefix:"INITIAL_ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"12"` // 小时
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Seed struct {
		User struct {
			Password string `env:"PASSWORD" envDefault:"cambiar123"`
		} `envPrefix:"USER_"`
	} `envPrefix:"SEED_"`
	Email struct {
		UserDomain string `env:"USER_DOMAIN" envDefault:"aeropista.example"`
		SMTP       struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host           string `env:"HOST" envDefault:"localhost"`
		Port           int    `env:"PORT" envDefault:"6379"`
		Password       string `env:"PASSWORD"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"5"`
	} `envPrefix:"REDIS_"`
	// 比例和权重没有默认值，缺失时启动失败
	Scheduling struct {
		StaffingRatio             float64 `env:"STAFFING_RATIO,required,notEmpty"`
		SkillMatchWeight          float64 `env:"SKILL_MATCH_WEIGHT,required,notEmpty"`
		CertificationBonus        float64 `env:"CERTIFICATION_BONUS,required,notEmpty"`
		WorkloadPenalty           float64 `env:"WORKLOAD_PENALTY,required,notEmpty"`
		DefaultOperationMinutes   int     `env:"DEFAULT_OPERATION_MINUTES" envDefault:"120"`
		Timezone                  string  `env:"TIMEZONE" envDefault:"UTC"`
		RestrictSupervisorStation bool    `env:"RESTRICT_SUPERVISOR_STATION" envDefault:"false"`
	} `envPrefix:"SCHEDULING_"`
}

func LoadConfig() (*Config, error) {
	// .env 只在本地开发时存在
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}

// SchedulingParameters 将配置转换为调度参数并立即校验
func (c *Config) SchedulingParameters() (*scheduler.Parameters, error) {
	loc, err := time.LoadLocation(c.Scheduling.Timezone)
	if err != nil {
		return nil, fmt.Errorf("无效的时区 %q: %w", c.Scheduling.Timezone, err)
	}

	params := &scheduler.Parameters{
		StaffingRatio:             c.Scheduling.StaffingRatio,
		SkillMatchWeight:          c.Scheduling.SkillMatchWeight,
		CertificationBonus:        c.Scheduling.CertificationBonus,
		WorkloadPenalty:           c.Scheduling.WorkloadPenalty,
		DefaultOperationDuration:  time.Duration(c.Scheduling.DefaultOperationMinutes) * time.Minute,
		Location:                  loc,
		RestrictSupervisorStation: c.Scheduling.RestrictSupervisorStation,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return params, nil
}

func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
