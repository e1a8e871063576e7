package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/aeropista-dev/ground-ops/backend/internal/config"
	"github.com/aeropista-dev/ground-ops/backend/internal/repository"
	"github.com/aeropista-dev/ground-ops/backend/internal/seed"
	"github.com/aeropista-dev/ground-ops/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var days int
	var stationID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 插入随机航班作业, 3: 插入演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.IntVar(&days, "days", 3, "航班作业分布在未来多少天内")
	flag.Int64Var(&stationID, "station-id", 0, "员工或作业所属的站点 ID，为 0 时在所有站点中轮流选择")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 没有指定站点时在所有站点之间轮流
	stationIDs := func() []int64 {
		if stationID > 0 {
			return []int64{stationID}
		}
		stations, err := repo.ListStations(context.Background())
		if err != nil {
			slog.Error("无法获取站点列表", slog.String("error", err.Error()))
			return nil
		}
		ids := make([]int64, 0, len(stations))
		for _, s := range stations {
			ids = append(ids, s.ID)
		}
		return ids
	}

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}
		ids := stationIDs()
		if len(ids) == 0 {
			slog.Error("没有可用的站点，请先插入演示数据")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			employee, err := seed.GenerateUniqueEmployee(context.Background(), repo, cfg.Seed.User.Password, cfg.Email.UserDomain, &ids[i%len(ids)])
			if err != nil {
				slog.Error("无法生成随机员工", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateEmployee(context.Background(), employee); err != nil {
				slog.Error("无法插入员工", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入员工成功", slog.Int("count", cnt))
	case 2:
		if n <= 0 || days <= 0 {
			slog.Error("请输入合法的作业数量和天数")
			return
		}
		ids := stationIDs()
		if len(ids) == 0 {
			slog.Error("没有可用的站点，请先插入演示数据")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			operation := utils.GenerateRandomOperation(ids[i%len(ids)], time.Now(), days)
			if err := repo.CreateOperation(context.Background(), operation); err != nil {
				slog.Error("无法插入航班作业", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入航班作业成功", slog.Int("count", cnt))
	case 3:
		opts := seed.Options{
			Password:            cfg.Seed.User.Password,
			EmailDomain:         cfg.Email.UserDomain,
			EmployeesPerStation: n,
			OperationsPerDay:    4,
			Days:                days,
			From:                time.Now(),
		}
		if err := seed.SeedDemoData(context.Background(), repo, opts); err != nil {
			slog.Error("无法插入演示数据", slog.String("error", err.Error()))
		}
	default:
		slog.Error("指定的操作非法")
	}
}
