package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"budget/config"
	"budget/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store 本地数据访问层
// 所有操作先进入串行访问门，再独占一条连接执行，结束后连接即关闭
type Store struct {
	db      *gorm.DB
	gate    *Gate
	timeout time.Duration

	Accounts        *AccountRepository
	Payees          *PayeeRepository
	EnvelopeGroups  *EnvelopeGroupRepository
	Envelopes       *EnvelopeRepository
	BudgetSchedules *BudgetScheduleRepository
	Budgets         *BudgetRepository
	Transactions    *TransactionRepository
	Sync            *SyncMappers
}

var defaultStore *Store

// Init 按配置打开数据库并完成建表/升级，保存为全局实例
func Init(cfg *config.Config) (*Store, error) {
	store, err := Open(context.Background(), cfg.Database)
	if err != nil {
		return nil, err
	}
	defaultStore = store
	log.Println("数据库初始化成功")
	return store, nil
}

// GetStore 获取全局实例
func GetStore() *Store {
	return defaultStore
}

// Open 打开数据库文件并执行 Initialize
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建数据目录失败: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn(cfg)), &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// 不保留空闲连接：每个操作用完即关闭
	sqlDB.SetMaxIdleConns(0)

	store := newStore(db, serialGate)
	store.timeout = cfg.OperationTimeout
	if err := store.Initialize(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return store, nil
}

func newStore(db *gorm.DB, gate *Gate) *Store {
	s := &Store{db: db, gate: gate}
	s.Accounts = &AccountRepository{newRepository[models.Account](s)}
	s.Payees = &PayeeRepository{newRepository[models.Payee](s)}
	s.EnvelopeGroups = &EnvelopeGroupRepository{newRepository[models.EnvelopeGroup](s)}
	s.Envelopes = &EnvelopeRepository{newRepository[models.Envelope](s, "EnvelopeGroup")}
	s.BudgetSchedules = &BudgetScheduleRepository{newRepository[models.BudgetSchedule](s)}
	s.Budgets = &BudgetRepository{newRepository[models.Budget](s, "Envelope.EnvelopeGroup", "BudgetSchedule")}
	s.Transactions = &TransactionRepository{newRepository[models.Transaction](s, "Account", "Payee", "Envelope.EnvelopeGroup")}
	s.Sync = newSyncMappers(s)
	return s
}

// Close 关闭数据库
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Do 在串行访问门内独占一条连接执行 fn
func (s *Store) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	waitCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	release, err := s.gate.Acquire(waitCtx)
	if err != nil {
		return err
	}
	defer release()

	// 临界区内不再响应取消
	return s.db.WithContext(context.WithoutCancel(ctx)).Connection(func(conn *gorm.DB) error {
		return fn(conn.Session(&gorm.Session{NewDB: true}))
	})
}

func dsn(cfg config.DatabaseConfig) string {
	params := []string{"_foreign_keys=on"}
	if cfg.BusyTimeoutMS > 0 {
		params = append(params, fmt.Sprintf("_busy_timeout=%d", cfg.BusyTimeoutMS))
	}
	return cfg.Path + "?" + strings.Join(params, "&")
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
