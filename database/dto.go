package database

import (
	"context"
	"time"

	"budget/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DtoMapper 同步/导入导出用的轻量映射，不读取父实体
type DtoMapper[T any, D any] struct {
	repo       *Repository[T]
	toEntity   func(D, time.Time) T
	fromEntity func(T) D
}

func newDtoMapper[T any, D any](s *Store, to func(D, time.Time) T, from func(T) D) *DtoMapper[T, D] {
	return &DtoMapper[T, D]{repo: newRepository[T](s), toEntity: to, fromEntity: from}
}

func (m *DtoMapper[T, D]) now() time.Time {
	return m.repo.store.db.NowFunc()
}

// Create 插入一条记录，返回带有最终 Id 的 Dto
func (m *DtoMapper[T, D]) Create(ctx context.Context, dto D) (D, error) {
	entity := m.toEntity(dto, m.now())
	if err := m.repo.Create(ctx, &entity); err != nil {
		var zero D
		return zero, err
	}
	return m.fromEntity(entity), nil
}

// ReadAll 批量读取，过滤规则同 Repository.ReadAll
func (m *DtoMapper[T, D]) ReadAll(ctx context.Context, filter IDFilter) ([]D, error) {
	entities, err := m.repo.ReadAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]D, 0, len(entities))
	for _, e := range entities {
		dtos = append(dtos, m.fromEntity(e))
	}
	return dtos, nil
}

// Update 按 Id 更新；Deleted/Hidden 为 true 时写入当前时间，false 时清空
func (m *DtoMapper[T, D]) Update(ctx context.Context, dto D) error {
	entity := m.toEntity(dto, m.now())
	return m.repo.Update(ctx, &entity)
}

// Import 在一次串行操作、一个事务内批量写入：Id 已存在则覆盖，否则插入
// 任意一条失败则整批回滚
func (m *DtoMapper[T, D]) Import(ctx context.Context, dtos []D) error {
	if len(dtos) == 0 {
		return nil
	}
	now := m.now()
	entities := make([]T, 0, len(dtos))
	for _, d := range dtos {
		entities = append(entities, m.toEntity(d, now))
	}
	return m.repo.store.Do(ctx, func(tx *gorm.DB) error {
		return tx.Transaction(func(tx *gorm.DB) error {
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "Id"}},
				UpdateAll: true,
			}).Omit(clause.Associations).Create(&entities).Error
		})
	})
}

// SyncMappers 各实体的 Dto 映射
type SyncMappers struct {
	Accounts        *DtoMapper[models.Account, models.AccountDto]
	Payees          *DtoMapper[models.Payee, models.PayeeDto]
	EnvelopeGroups  *DtoMapper[models.EnvelopeGroup, models.EnvelopeGroupDto]
	Envelopes       *DtoMapper[models.Envelope, models.EnvelopeDto]
	BudgetSchedules *DtoMapper[models.BudgetSchedule, models.BudgetScheduleDto]
	Budgets         *DtoMapper[models.Budget, models.BudgetDto]
	Transactions    *DtoMapper[models.Transaction, models.TransactionDto]
}

func newSyncMappers(s *Store) *SyncMappers {
	return &SyncMappers{
		Accounts:        newDtoMapper(s, models.AccountDto.ToAccount, models.NewAccountDto),
		Payees:          newDtoMapper(s, models.PayeeDto.ToPayee, models.NewPayeeDto),
		EnvelopeGroups:  newDtoMapper(s, models.EnvelopeGroupDto.ToEnvelopeGroup, models.NewEnvelopeGroupDto),
		Envelopes:       newDtoMapper(s, models.EnvelopeDto.ToEnvelope, models.NewEnvelopeDto),
		BudgetSchedules: newDtoMapper(s, models.BudgetScheduleDto.ToBudgetSchedule, models.NewBudgetScheduleDto),
		Budgets:         newDtoMapper(s, models.BudgetDto.ToBudget, models.NewBudgetDto),
		Transactions:    newDtoMapper(s, models.TransactionDto.ToTransaction, models.NewTransactionDto),
	}
}
