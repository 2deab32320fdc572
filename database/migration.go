package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// migration 从 from 升级到 from+1 的一步
type migration struct {
	from  int
	apply func(tx *gorm.DB) error
}

// migrations 按版本顺序排列，每个版本都必须依次经过
var migrations = []migration{
	{from: 0, apply: upgradeV0ToV1},
}

// upgrade 从 current 起依次执行升级，每一步一个事务，全部完成后 VACUUM
func upgrade(db *gorm.DB, current int) error {
	if current > SchemaVersion {
		return fmt.Errorf("%w: v%d > v%d", ErrSchemaTooNew, current, SchemaVersion)
	}
	if current == SchemaVersion {
		return nil
	}

	for _, m := range migrations {
		if m.from < current {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.apply(tx); err != nil {
				return err
			}
			return setUserVersion(tx, m.from+1)
		})
		if err != nil {
			return fmt.Errorf("升级 v%d -> v%d 失败: %w", m.from, m.from+1, err)
		}
		current = m.from + 1
		log.Printf("数据库结构已升级到 v%d", current)
	}

	if err := db.Exec(`VACUUM`).Error; err != nil {
		return fmt.Errorf("回收空间失败: %w", err)
	}
	return nil
}

// v0 -> v1 的数据拷贝，按外键依赖排序
// 拷贝时丢弃外键悬空的行；HiddenDateTime 用 DeletedDateTime 补齐以满足新触发器；
// 同一 (EnvelopeId, BudgetScheduleId) 只保留最早的一条预算
var copyV0ToV1 = []string{
	`INSERT INTO Payee (Id, Description, Notes, CreatedDateTime, ModifiedDateTime, DeletedDateTime, HiddenDateTime)
SELECT Id, COALESCE(Description, ''), COALESCE(Notes, ''),
	COALESCE(CreatedDateTime, CURRENT_TIMESTAMP), COALESCE(ModifiedDateTime, CURRENT_TIMESTAMP),
	DeletedDateTime, COALESCE(HiddenDateTime, DeletedDateTime)
FROM Payee_old`,
	`INSERT INTO Account (Id, Description, OnBudget, Notes, CreatedDateTime, ModifiedDateTime, DeletedDateTime, HiddenDateTime)
SELECT Id, COALESCE(Description, ''), COALESCE(OnBudget, 0), COALESCE(Notes, ''),
	COALESCE(CreatedDateTime, CURRENT_TIMESTAMP), COALESCE(ModifiedDateTime, CURRENT_TIMESTAMP),
	DeletedDateTime, COALESCE(HiddenDateTime, DeletedDateTime)
FROM Account_old`,
	`INSERT INTO EnvelopeGroup (Id, Description, Notes, CreatedDateTime, ModifiedDateTime, DeletedDateTime, HiddenDateTime)
SELECT Id, COALESCE(Description, ''), COALESCE(Notes, ''),
	COALESCE(CreatedDateTime, CURRENT_TIMESTAMP), COALESCE(ModifiedDateTime, CURRENT_TIMESTAMP),
	DeletedDateTime, COALESCE(HiddenDateTime, DeletedDateTime)
FROM EnvelopeGroup_old`,
	`INSERT INTO Envelope (Id, Description, Notes, IgnoreOverspend, EnvelopeGroupId, CreatedDateTime, ModifiedDateTime, DeletedDateTime, HiddenDateTime)
SELECT Id, COALESCE(Description, ''), COALESCE(Notes, ''), 0, EnvelopeGroupId,
	COALESCE(CreatedDateTime, CURRENT_TIMESTAMP), COALESCE(ModifiedDateTime, CURRENT_TIMESTAMP),
	DeletedDateTime, COALESCE(HiddenDateTime, DeletedDateTime)
FROM Envelope_old
WHERE EnvelopeGroupId IN (SELECT Id FROM EnvelopeGroup)`,
	`INSERT INTO BudgetSchedule (Id, BeginDate, EndDate, CreatedDateTime, ModifiedDateTime)
SELECT Id, BeginDate, EndDate,
	COALESCE(CreatedDateTime, CURRENT_TIMESTAMP), COALESCE(ModifiedDateTime, CURRENT_TIMESTAMP)
FROM BudgetSchedule_old
WHERE BeginDate IS NOT NULL AND EndDate IS NOT NULL`,
	`INSERT OR IGNORE INTO Budget (Id, Amount, IgnoreOverspend, EnvelopeId, BudgetScheduleId, CreatedDateTime, ModifiedDateTime)
SELECT Id, CAST(COALESCE(Amount, '0') AS TEXT), 0, EnvelopeId, BudgetScheduleId,
	COALESCE(CreatedDateTime, CURRENT_TIMESTAMP), COALESCE(ModifiedDateTime, CURRENT_TIMESTAMP)
FROM Budget_old
WHERE EnvelopeId IN (SELECT Id FROM Envelope)
	AND BudgetScheduleId IN (SELECT Id FROM BudgetSchedule)
ORDER BY rowid`,
	`INSERT INTO "Transaction" (Id, Amount, Posted, ReconciledDateTime, AccountId, PayeeId, EnvelopeId, SplitId, ServiceDate, Notes, CreatedDateTime, ModifiedDateTime, DeletedDateTime)
SELECT Id, CAST(COALESCE(Amount, '0') AS TEXT), COALESCE(Posted, 0), ReconciledDateTime, AccountId, PayeeId, EnvelopeId, NULL,
	COALESCE(ServiceDate, CreatedDateTime, CURRENT_TIMESTAMP), COALESCE(Notes, ''),
	COALESCE(CreatedDateTime, CURRENT_TIMESTAMP), COALESCE(ModifiedDateTime, CURRENT_TIMESTAMP),
	DeletedDateTime
FROM Transaction_old
WHERE AccountId IN (SELECT Id FROM Account)
	AND PayeeId IN (SELECT Id FROM Payee)
	AND EnvelopeId IN (SELECT Id FROM Envelope)`,
}

// upgradeV0ToV1 重命名旧表 -> 按新结构建表 -> 拷贝数据 -> 删除旧表 -> 重建触发器与内置数据
func upgradeV0ToV1(tx *gorm.DB) error {
	for _, t := range tablesV1 {
		stmt := fmt.Sprintf(`ALTER TABLE "%s" RENAME TO "%s_old"`, t.Name, t.Name)
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("重命名表 %s: %w", t.Name, err)
		}
	}
	for _, t := range tablesV1 {
		if err := tx.Exec(t.DDL).Error; err != nil {
			return fmt.Errorf("创建表 %s: %w", t.Name, err)
		}
	}
	if err := execAll(tx, copyV0ToV1); err != nil {
		return err
	}
	// 子表先删
	for i := len(tablesV1) - 1; i >= 0; i-- {
		stmt := fmt.Sprintf(`DROP TABLE "%s_old"`, tablesV1[i].Name)
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("删除旧表 %s: %w", tablesV1[i].Name, err)
		}
	}
	if err := execAll(tx, indexesV1); err != nil {
		return err
	}
	if err := execAll(tx, softDeleteTriggers()); err != nil {
		return err
	}
	return seed(tx)
}
