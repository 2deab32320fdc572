package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 同步/导入导出使用的轻量结构：外键只保留 Id，隐藏/删除用布尔值表示
// 写入时 true 映射为当前时间，false 映射为 NULL

// AccountDto 账户同步结构
type AccountDto struct {
	ID          GUID   `json:"id"`
	Description string `json:"description"`
	OnBudget    bool   `json:"on_budget"`
	Notes       string `json:"notes"`
	Deleted     bool   `json:"deleted"`
	Hidden      bool   `json:"hidden"`
}

// PayeeDto 收付款方同步结构
type PayeeDto struct {
	ID          GUID   `json:"id"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
	Deleted     bool   `json:"deleted"`
	Hidden      bool   `json:"hidden"`
}

// EnvelopeGroupDto 信封分组同步结构
type EnvelopeGroupDto struct {
	ID          GUID   `json:"id"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
	Deleted     bool   `json:"deleted"`
	Hidden      bool   `json:"hidden"`
}

// EnvelopeDto 信封同步结构
type EnvelopeDto struct {
	ID              GUID   `json:"id"`
	Description     string `json:"description"`
	Notes           string `json:"notes"`
	IgnoreOverspend bool   `json:"ignore_overspend"`
	EnvelopeGroupID GUID   `json:"envelope_group_id"`
	Deleted         bool   `json:"deleted"`
	Hidden          bool   `json:"hidden"`
}

// BudgetScheduleDto 预算周期同步结构
type BudgetScheduleDto struct {
	ID        GUID      `json:"id"`
	BeginDate time.Time `json:"begin_date"`
	EndDate   time.Time `json:"end_date"`
}

// BudgetDto 预算同步结构
type BudgetDto struct {
	ID               GUID            `json:"id"`
	Amount           decimal.Decimal `json:"amount"`
	IgnoreOverspend  bool            `json:"ignore_overspend"`
	EnvelopeID       GUID            `json:"envelope_id"`
	BudgetScheduleID GUID            `json:"budget_schedule_id"`
}

// TransactionDto 流水同步结构
type TransactionDto struct {
	ID                 GUID            `json:"id"`
	Amount             decimal.Decimal `json:"amount"`
	Posted             bool            `json:"posted"`
	ReconciledDateTime *time.Time      `json:"reconciled_date_time"`
	AccountID          GUID            `json:"account_id"`
	PayeeID            GUID            `json:"payee_id"`
	EnvelopeID         GUID            `json:"envelope_id"`
	SplitID            NullGUID        `json:"split_id"`
	ServiceDate        time.Time       `json:"service_date"`
	Notes              string          `json:"notes"`
	Deleted            bool            `json:"deleted"`
}

func flagTime(flag bool, now time.Time) *time.Time {
	if !flag {
		return nil
	}
	return &now
}

func softDeleteFromFlags(deleted, hidden bool, now time.Time) SoftDelete {
	// 删除必然隐藏
	return SoftDelete{
		DeletedDateTime: flagTime(deleted, now),
		HiddenDateTime:  flagTime(deleted || hidden, now),
	}
}

// ToAccount 转换为实体
func (d AccountDto) ToAccount(now time.Time) Account {
	return Account{
		Model:       Model{ID: d.ID},
		Description: d.Description,
		OnBudget:    d.OnBudget,
		Notes:       d.Notes,
		SoftDelete:  softDeleteFromFlags(d.Deleted, d.Hidden, now),
	}
}

// NewAccountDto 从实体转换
func NewAccountDto(a Account) AccountDto {
	return AccountDto{
		ID:          a.ID,
		Description: a.Description,
		OnBudget:    a.OnBudget,
		Notes:       a.Notes,
		Deleted:     a.IsDeleted(),
		Hidden:      a.IsHidden(),
	}
}

// ToPayee 转换为实体
func (d PayeeDto) ToPayee(now time.Time) Payee {
	return Payee{
		Model:       Model{ID: d.ID},
		Description: d.Description,
		Notes:       d.Notes,
		SoftDelete:  softDeleteFromFlags(d.Deleted, d.Hidden, now),
	}
}

// NewPayeeDto 从实体转换
func NewPayeeDto(p Payee) PayeeDto {
	return PayeeDto{
		ID:          p.ID,
		Description: p.Description,
		Notes:       p.Notes,
		Deleted:     p.IsDeleted(),
		Hidden:      p.IsHidden(),
	}
}

// ToEnvelopeGroup 转换为实体
func (d EnvelopeGroupDto) ToEnvelopeGroup(now time.Time) EnvelopeGroup {
	return EnvelopeGroup{
		Model:       Model{ID: d.ID},
		Description: d.Description,
		Notes:       d.Notes,
		SoftDelete:  softDeleteFromFlags(d.Deleted, d.Hidden, now),
	}
}

// NewEnvelopeGroupDto 从实体转换
func NewEnvelopeGroupDto(g EnvelopeGroup) EnvelopeGroupDto {
	return EnvelopeGroupDto{
		ID:          g.ID,
		Description: g.Description,
		Notes:       g.Notes,
		Deleted:     g.IsDeleted(),
		Hidden:      g.IsHidden(),
	}
}

// ToEnvelope 转换为实体
func (d EnvelopeDto) ToEnvelope(now time.Time) Envelope {
	return Envelope{
		Model:           Model{ID: d.ID},
		Description:     d.Description,
		Notes:           d.Notes,
		IgnoreOverspend: d.IgnoreOverspend,
		EnvelopeGroupID: d.EnvelopeGroupID,
		SoftDelete:      softDeleteFromFlags(d.Deleted, d.Hidden, now),
	}
}

// NewEnvelopeDto 从实体转换
func NewEnvelopeDto(e Envelope) EnvelopeDto {
	return EnvelopeDto{
		ID:              e.ID,
		Description:     e.Description,
		Notes:           e.Notes,
		IgnoreOverspend: e.IgnoreOverspend,
		EnvelopeGroupID: e.EnvelopeGroupID,
		Deleted:         e.IsDeleted(),
		Hidden:          e.IsHidden(),
	}
}

// ToBudgetSchedule 转换为实体
func (d BudgetScheduleDto) ToBudgetSchedule(time.Time) BudgetSchedule {
	return BudgetSchedule{
		Model:     Model{ID: d.ID},
		BeginDate: d.BeginDate,
		EndDate:   d.EndDate,
	}
}

// NewBudgetScheduleDto 从实体转换
func NewBudgetScheduleDto(s BudgetSchedule) BudgetScheduleDto {
	return BudgetScheduleDto{
		ID:        s.ID,
		BeginDate: s.BeginDate,
		EndDate:   s.EndDate,
	}
}

// ToBudget 转换为实体
func (d BudgetDto) ToBudget(time.Time) Budget {
	return Budget{
		Model:            Model{ID: d.ID},
		Amount:           d.Amount,
		IgnoreOverspend:  d.IgnoreOverspend,
		EnvelopeID:       d.EnvelopeID,
		BudgetScheduleID: d.BudgetScheduleID,
	}
}

// NewBudgetDto 从实体转换
func NewBudgetDto(b Budget) BudgetDto {
	return BudgetDto{
		ID:               b.ID,
		Amount:           b.Amount,
		IgnoreOverspend:  b.IgnoreOverspend,
		EnvelopeID:       b.EnvelopeID,
		BudgetScheduleID: b.BudgetScheduleID,
	}
}

// ToTransaction 转换为实体
func (d TransactionDto) ToTransaction(now time.Time) Transaction {
	return Transaction{
		Model:              Model{ID: d.ID},
		Amount:             d.Amount,
		Posted:             d.Posted,
		ReconciledDateTime: d.ReconciledDateTime,
		AccountID:          d.AccountID,
		PayeeID:            d.PayeeID,
		EnvelopeID:         d.EnvelopeID,
		SplitID:            d.SplitID,
		ServiceDate:        d.ServiceDate,
		Notes:              d.Notes,
		DeletedDateTime:    flagTime(d.Deleted, now),
	}
}

// NewTransactionDto 从实体转换
func NewTransactionDto(t Transaction) TransactionDto {
	return TransactionDto{
		ID:                 t.ID,
		Amount:             t.Amount,
		Posted:             t.Posted,
		ReconciledDateTime: t.ReconciledDateTime,
		AccountID:          t.AccountID,
		PayeeID:            t.PayeeID,
		EnvelopeID:         t.EnvelopeID,
		SplitID:            t.SplitID,
		ServiceDate:        t.ServiceDate,
		Notes:              t.Notes,
		Deleted:            t.IsDeleted(),
	}
}
