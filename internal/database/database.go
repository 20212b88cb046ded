package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"todoTracker/internal/config"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB общий дескриптор хранилища: gorm поверх пула pgx или встроенного SQLite
type DB struct {
	Gorm  *gorm.DB
	sqlDB *sql.DB
	pool  *pgxpool.Pool
	kind  string
}

func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	switch cfg.Repository.Type {
	case config.RepositorySQLite:
		return OpenSQLite(cfg.Repository.SQLitePath, cfg.Database.SlowQuery)
	default:
		return OpenPostgres(ctx, cfg.Database)
	}
}

func gormConfig(slowQuery time.Duration) *gorm.Config {
	return &gorm.Config{
		Logger:                 logger.NewGormLogger(slowQuery),
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConnections
	poolConfig.MinConns = cfg.MinConnections
	poolConfig.MaxConnIdleTime = cfg.IdleTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := waitForPostgres(ctx, pool, cfg.ConnectTimeout); err != nil {
		pool.Close()
		return nil, err
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig(cfg.SlowQuery))
	if err != nil {
		sqlDB.Close()
		pool.Close()
		logger.Error("Repository: Ошибка инициализации gorm", err)
		return nil, fmt.Errorf("инициализация gorm: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &DB{Gorm: gdb, sqlDB: sqlDB, pool: pool, kind: config.RepositoryPostgres}, nil
}

// waitForPostgres повторяет ping с экспоненциальной задержкой, пока база не поднимется
func waitForPostgres(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = timeout

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := pool.Ping(ctx)
		if err != nil {
			logger.Warn("Repository: Неудачная проверка ping",
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
		return err
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		logger.Error("Repository: База недоступна", err, zap.Int("attempts", attempt))
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// OpenSQLite открывает встроенную базу и создаёт схему через AutoMigrate.
// Для in-memory базы пул ограничен одним соединением, иначе каждое
// соединение видит свою пустую базу.
func OpenSQLite(path string, slowQuery time.Duration) (*DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), gormConfig(slowQuery))
	if err != nil {
		logger.Error("Repository: Ошибка открытия SQLite", err)
		return nil, fmt.Errorf("открытие sqlite: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("получение sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&task.Task{}); err != nil {
		sqlDB.Close()
		logger.Error("Repository: Ошибка создания схемы", err)
		return nil, fmt.Errorf("создание схемы: %w", err)
	}

	logger.Info("Repository: Открыта база SQLite", zap.String("path", path))
	return &DB{Gorm: gdb, sqlDB: sqlDB, kind: config.RepositorySQLite}, nil
}

func (d *DB) Kind() string {
	return d.kind
}

func (d *DB) Close() {
	if d.sqlDB != nil {
		d.sqlDB.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
	logger.Info("Repository: Закрытие всех соединений", zap.String("kind", d.kind))
}

func (d *DB) HealthCheck(ctx context.Context) error {
	var err error
	if d.pool != nil {
		err = d.pool.Ping(ctx)
	} else {
		err = d.sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}
