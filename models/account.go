package models

// Account 资金账户
type Account struct {
	Model
	Description string `json:"description" gorm:"column:Description"`
	OnBudget    bool   `json:"on_budget" gorm:"column:OnBudget"`
	Notes       string `json:"notes" gorm:"column:Notes"`
	SoftDelete
}

// TableName 设置表名
func (Account) TableName() string {
	return "Account"
}
