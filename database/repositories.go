package database

import (
	"context"
	"time"

	"budget/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountRepository 账户
type AccountRepository struct {
	*Repository[models.Account]
}

// ReadOnBudget 读取参与预算、未删除的账户
func (r *AccountRepository) ReadOnBudget(ctx context.Context) ([]models.Account, error) {
	return r.find(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("OnBudget = ? AND DeletedDateTime IS NULL", true).Order("Description")
	})
}

// PayeeRepository 收付款方
type PayeeRepository struct {
	*Repository[models.Payee]
}

// Delete 物理删除收付款方
// 与其他实体的软删除不同，这里直接删除行；仍被流水引用时因外键约束失败
func (r *PayeeRepository) Delete(ctx context.Context, id models.GUID) error {
	return r.store.Do(ctx, func(tx *gorm.DB) error {
		result := tx.Where("Id = ?", id).Delete(&models.Payee{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// EnvelopeGroupRepository 信封分组
type EnvelopeGroupRepository struct {
	*Repository[models.EnvelopeGroup]
}

// EnvelopeRepository 信封
type EnvelopeRepository struct {
	*Repository[models.Envelope]
}

// ReadByGroup 读取某分组下的信封
func (r *EnvelopeRepository) ReadByGroup(ctx context.Context, groupID models.GUID) ([]models.Envelope, error) {
	return r.find(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("EnvelopeGroupId = ?", groupID).Order("Description")
	})
}

// BudgetScheduleRepository 预算周期
type BudgetScheduleRepository struct {
	*Repository[models.BudgetSchedule]
}

// ReadByDate 读取包含该日期的周期，不存在时返回 ErrNotFound
func (r *BudgetScheduleRepository) ReadByDate(ctx context.Context, date time.Time) (*models.BudgetSchedule, error) {
	list, err := r.find(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Order("BeginDate DESC")
	})
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Contains(date) {
			return &list[i], nil
		}
	}
	return nil, ErrNotFound
}

// BudgetRepository 预算
type BudgetRepository struct {
	*Repository[models.Budget]
}

// ReadBySchedule 读取某周期内全部信封的预算
func (r *BudgetRepository) ReadBySchedule(ctx context.Context, scheduleID models.GUID) ([]models.Budget, error) {
	return r.find(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("BudgetScheduleId = ?", scheduleID)
	})
}

// ReadByEnvelopeAndSchedule 读取信封在某周期内的唯一预算，不存在时返回 ErrNotFound
func (r *BudgetRepository) ReadByEnvelopeAndSchedule(ctx context.Context, envelopeID, scheduleID models.GUID) (*models.Budget, error) {
	list, err := r.find(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("EnvelopeId = ? AND BudgetScheduleId = ?", envelopeID, scheduleID).Limit(1)
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return &list[0], nil
}

// TransactionRepository 流水
type TransactionRepository struct {
	*Repository[models.Transaction]
}

// Delete 软删除流水：写入 DeletedDateTime，行本身保留
func (r *TransactionRepository) Delete(ctx context.Context, id models.GUID) error {
	return r.store.Do(ctx, func(tx *gorm.DB) error {
		now := tx.NowFunc()
		result := tx.Model(&models.Transaction{}).
			Where("Id = ?", id).
			Updates(map[string]interface{}{"DeletedDateTime": now, "ModifiedDateTime": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ReadByAccount 读取账户下的流水，按发生日期排序
func (r *TransactionRepository) ReadByAccount(ctx context.Context, accountID models.GUID) ([]models.Transaction, error) {
	return r.find(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("AccountId = ?", accountID).Order("ServiceDate").Order("CreatedDateTime")
	})
}

// ReadBySplit 读取同一笔拆分交易的全部流水
func (r *TransactionRepository) ReadBySplit(ctx context.Context, splitID models.GUID) ([]models.Transaction, error) {
	return r.find(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("SplitId = ?", splitID).Order("CreatedDateTime")
	})
}

// AccountBalance 账户余额：未删除流水金额之和
// 金额按文本存储，求和在内存中用 decimal 完成，避免浮点误差
func (r *TransactionRepository) AccountBalance(ctx context.Context, accountID models.GUID) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := r.store.Do(ctx, func(tx *gorm.DB) error {
		return tx.Model(&models.Transaction{}).
			Where("AccountId = ? AND DeletedDateTime IS NULL", accountID).
			Pluck("Amount", &amounts).Error
	})
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}
