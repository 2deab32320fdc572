package models

// Payee 收付款方
type Payee struct {
	Model
	Description string `json:"description" gorm:"column:Description"`
	Notes       string `json:"notes" gorm:"column:Notes"`
	SoftDelete
}

// TableName 设置表名
func (Payee) TableName() string {
	return "Payee"
}
