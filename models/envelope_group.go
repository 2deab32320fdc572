package models

// EnvelopeGroup 信封分组
type EnvelopeGroup struct {
	Model
	Description string `json:"description" gorm:"column:Description"`
	Notes       string `json:"notes" gorm:"column:Notes"`
	SoftDelete
}

// TableName 设置表名
func (EnvelopeGroup) TableName() string {
	return "EnvelopeGroup"
}
