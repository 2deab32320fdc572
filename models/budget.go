package models

import "github.com/shopspring/decimal"

// Budget 某信封在某预算周期内的分配金额
// (EnvelopeId, BudgetScheduleId) 唯一
type Budget struct {
	Model
	Amount           decimal.Decimal `json:"amount" gorm:"column:Amount"`
	IgnoreOverspend  bool            `json:"ignore_overspend" gorm:"column:IgnoreOverspend"`
	EnvelopeID       GUID            `json:"envelope_id" gorm:"column:EnvelopeId"`
	Envelope         Envelope        `json:"envelope" gorm:"foreignKey:EnvelopeID"`
	BudgetScheduleID GUID            `json:"budget_schedule_id" gorm:"column:BudgetScheduleId"`
	BudgetSchedule   BudgetSchedule  `json:"budget_schedule" gorm:"foreignKey:BudgetScheduleID"`
}

// TableName 设置表名
func (Budget) TableName() string {
	return "Budget"
}
