package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction 账户流水
// 同一 SplitId 的多条流水属于同一笔拆分交易；流水只会被删除，不会被隐藏
type Transaction struct {
	Model
	Amount             decimal.Decimal `json:"amount" gorm:"column:Amount"`
	Posted             bool            `json:"posted" gorm:"column:Posted"`
	ReconciledDateTime *time.Time      `json:"reconciled_date_time" gorm:"column:ReconciledDateTime"`
	AccountID          GUID            `json:"account_id" gorm:"column:AccountId"`
	Account            Account         `json:"account" gorm:"foreignKey:AccountID"`
	PayeeID            GUID            `json:"payee_id" gorm:"column:PayeeId"`
	Payee              Payee           `json:"payee" gorm:"foreignKey:PayeeID"`
	EnvelopeID         GUID            `json:"envelope_id" gorm:"column:EnvelopeId"`
	Envelope           Envelope        `json:"envelope" gorm:"foreignKey:EnvelopeID"`
	SplitID            NullGUID        `json:"split_id" gorm:"column:SplitId"`
	ServiceDate        time.Time       `json:"service_date" gorm:"column:ServiceDate"`
	Notes              string          `json:"notes" gorm:"column:Notes"`
	DeletedDateTime    *time.Time      `json:"deleted_date_time" gorm:"column:DeletedDateTime"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "Transaction"
}

// IsDeleted 是否已删除
func (t Transaction) IsDeleted() bool {
	return t.DeletedDateTime != nil
}

// IsReconciled 是否已对账
func (t Transaction) IsReconciled() bool {
	return t.ReconciledDateTime != nil
}

// IsSplit 是否属于拆分交易
func (t Transaction) IsSplit() bool {
	return t.SplitID.Valid
}
