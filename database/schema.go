package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"budget/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SchemaVersion 当前程序对应的结构版本（PRAGMA user_version）
const SchemaVersion = 1

// markerTable 存在即视为已建库
const markerTable = "Account"

// tablesV1 按外键依赖排序（父表在前）
var tablesV1 = []struct {
	Name string
	DDL  string
}{
	{"Payee", `CREATE TABLE IF NOT EXISTS Payee (
	Id BLOB NOT NULL PRIMARY KEY,
	Description TEXT NOT NULL DEFAULT '',
	Notes TEXT NOT NULL DEFAULT '',
	CreatedDateTime DATETIME NOT NULL,
	ModifiedDateTime DATETIME NOT NULL,
	DeletedDateTime DATETIME,
	HiddenDateTime DATETIME
)`},
	{"Account", `CREATE TABLE IF NOT EXISTS Account (
	Id BLOB NOT NULL PRIMARY KEY,
	Description TEXT NOT NULL DEFAULT '',
	OnBudget INTEGER NOT NULL DEFAULT 0,
	Notes TEXT NOT NULL DEFAULT '',
	CreatedDateTime DATETIME NOT NULL,
	ModifiedDateTime DATETIME NOT NULL,
	DeletedDateTime DATETIME,
	HiddenDateTime DATETIME
)`},
	{"EnvelopeGroup", `CREATE TABLE IF NOT EXISTS EnvelopeGroup (
	Id BLOB NOT NULL PRIMARY KEY,
	Description TEXT NOT NULL DEFAULT '',
	Notes TEXT NOT NULL DEFAULT '',
	CreatedDateTime DATETIME NOT NULL,
	ModifiedDateTime DATETIME NOT NULL,
	DeletedDateTime DATETIME,
	HiddenDateTime DATETIME
)`},
	{"Envelope", `CREATE TABLE IF NOT EXISTS Envelope (
	Id BLOB NOT NULL PRIMARY KEY,
	Description TEXT NOT NULL DEFAULT '',
	Notes TEXT NOT NULL DEFAULT '',
	IgnoreOverspend INTEGER NOT NULL DEFAULT 0,
	EnvelopeGroupId BLOB NOT NULL REFERENCES EnvelopeGroup(Id),
	CreatedDateTime DATETIME NOT NULL,
	ModifiedDateTime DATETIME NOT NULL,
	DeletedDateTime DATETIME,
	HiddenDateTime DATETIME
)`},
	{"BudgetSchedule", `CREATE TABLE IF NOT EXISTS BudgetSchedule (
	Id BLOB NOT NULL PRIMARY KEY,
	BeginDate DATE NOT NULL,
	EndDate DATE NOT NULL,
	CreatedDateTime DATETIME NOT NULL,
	ModifiedDateTime DATETIME NOT NULL
)`},
	{"Budget", `CREATE TABLE IF NOT EXISTS Budget (
	Id BLOB NOT NULL PRIMARY KEY,
	Amount TEXT NOT NULL DEFAULT '0',
	IgnoreOverspend INTEGER NOT NULL DEFAULT 0,
	EnvelopeId BLOB NOT NULL REFERENCES Envelope(Id),
	BudgetScheduleId BLOB NOT NULL REFERENCES BudgetSchedule(Id),
	CreatedDateTime DATETIME NOT NULL,
	ModifiedDateTime DATETIME NOT NULL,
	UNIQUE (EnvelopeId, BudgetScheduleId)
)`},
	{"Transaction", `CREATE TABLE IF NOT EXISTS "Transaction" (
	Id BLOB NOT NULL PRIMARY KEY,
	Amount TEXT NOT NULL DEFAULT '0',
	Posted INTEGER NOT NULL DEFAULT 0,
	ReconciledDateTime DATETIME,
	AccountId BLOB NOT NULL REFERENCES Account(Id),
	PayeeId BLOB NOT NULL REFERENCES Payee(Id),
	EnvelopeId BLOB NOT NULL REFERENCES Envelope(Id),
	SplitId BLOB,
	ServiceDate DATE NOT NULL,
	Notes TEXT NOT NULL DEFAULT '',
	CreatedDateTime DATETIME NOT NULL,
	ModifiedDateTime DATETIME NOT NULL,
	DeletedDateTime DATETIME
)`},
}

// indexesV1 常用查询的索引
var indexesV1 = []string{
	`CREATE INDEX IF NOT EXISTS IX_Envelope_EnvelopeGroupId ON Envelope(EnvelopeGroupId)`,
	`CREATE INDEX IF NOT EXISTS IX_Budget_BudgetScheduleId ON Budget(BudgetScheduleId)`,
	`CREATE INDEX IF NOT EXISTS IX_Transaction_AccountId ON "Transaction"(AccountId)`,
	`CREATE INDEX IF NOT EXISTS IX_Transaction_EnvelopeId ON "Transaction"(EnvelopeId)`,
	`CREATE INDEX IF NOT EXISTS IX_Transaction_SplitId ON "Transaction"(SplitId) WHERE SplitId IS NOT NULL`,
}

// softDeleteTables 受“删除必须先隐藏”约束的表
var softDeleteTables = []string{"Account", "Payee", "EnvelopeGroup", "Envelope"}

var triggerSuffix = map[string]string{"INSERT": "Insert", "UPDATE": "Update"}

// softDeleteTriggers 为每张软删除表生成 INSERT/UPDATE 前置校验触发器
func softDeleteTriggers() []string {
	var stmts []string
	for _, table := range softDeleteTables {
		for _, event := range []string{"INSERT", "UPDATE"} {
			name := fmt.Sprintf("%s_Validate%s", table, triggerSuffix[event])
			stmts = append(stmts,
				fmt.Sprintf(`DROP TRIGGER IF EXISTS %s`, name),
				fmt.Sprintf(`CREATE TRIGGER %s BEFORE %s ON %s
WHEN NEW.DeletedDateTime IS NOT NULL AND NEW.HiddenDateTime IS NULL
BEGIN
	SELECT RAISE(ABORT, '%s: DeletedDateTime requires HiddenDateTime');
END`, name, event, table, table),
			)
		}
	}
	return stmts
}

// Initialize 建库或升级，可重复调用
func (s *Store) Initialize(ctx context.Context) error {
	return s.Do(ctx, func(tx *gorm.DB) error {
		exists, err := tableExists(tx, markerTable)
		if err != nil {
			return fmt.Errorf("检查数据库结构失败: %w", err)
		}
		if !exists {
			if err := createSchema(tx); err != nil {
				return fmt.Errorf("创建数据库结构失败: %w", err)
			}
			log.Printf("已创建数据库结构 v%d", SchemaVersion)
			return nil
		}

		version, err := userVersion(tx)
		if err != nil {
			return err
		}
		return upgrade(tx, version)
	})
}

// CurrentSchemaVersion 读取数据库中记录的结构版本
func (s *Store) CurrentSchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.Do(ctx, func(tx *gorm.DB) error {
		var err error
		version, err = userVersion(tx)
		return err
	})
	return version, err
}

func createSchema(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, t := range tablesV1 {
			if err := tx.Exec(t.DDL).Error; err != nil {
				return fmt.Errorf("创建表 %s: %w", t.Name, err)
			}
		}
		if err := execAll(tx, indexesV1); err != nil {
			return err
		}
		if err := execAll(tx, softDeleteTriggers()); err != nil {
			return err
		}
		if err := seed(tx); err != nil {
			return err
		}
		return setUserVersion(tx, SchemaVersion)
	})
}

// seed 写入内置数据，按固定 Id 忽略已存在的行
func seed(tx *gorm.DB) error {
	ignore := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Session(&gorm.Session{})
	groups := models.SeedEnvelopeGroups()
	if err := ignore.Create(&groups).Error; err != nil {
		return fmt.Errorf("写入内置信封分组: %w", err)
	}
	envelopes := models.SeedEnvelopes()
	if err := ignore.Create(&envelopes).Error; err != nil {
		return fmt.Errorf("写入内置信封: %w", err)
	}
	payees := models.SeedPayees()
	if err := ignore.Create(&payees).Error; err != nil {
		return fmt.Errorf("写入内置收付款方: %w", err)
	}
	return nil
}

func execAll(tx *gorm.DB, stmts []string) error {
	for _, stmt := range stmts {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("执行 %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func tableExists(tx *gorm.DB, name string) (bool, error) {
	var count int64
	err := tx.Raw(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count).Error
	return count > 0, err
}

func userVersion(tx *gorm.DB) (int, error) {
	var version int
	if err := tx.Raw(`PRAGMA user_version`).Scan(&version).Error; err != nil {
		return 0, fmt.Errorf("读取结构版本失败: %w", err)
	}
	return version, nil
}

func setUserVersion(tx *gorm.DB, version int) error {
	// PRAGMA 不支持参数绑定
	return tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, version)).Error
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
