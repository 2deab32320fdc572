package models

// Envelope 预算信封（类别），隶属于唯一的分组
type Envelope struct {
	Model
	Description     string        `json:"description" gorm:"column:Description"`
	Notes           string        `json:"notes" gorm:"column:Notes"`
	IgnoreOverspend bool          `json:"ignore_overspend" gorm:"column:IgnoreOverspend"`
	EnvelopeGroupID GUID          `json:"envelope_group_id" gorm:"column:EnvelopeGroupId"`
	EnvelopeGroup   EnvelopeGroup `json:"envelope_group" gorm:"foreignKey:EnvelopeGroupID"`
	SoftDelete
}

// TableName 设置表名
func (Envelope) TableName() string {
	return "Envelope"
}

// IsSystem 是否为内置信封
func (e Envelope) IsSystem() bool {
	return e.EnvelopeGroupID == SystemEnvelopeGroupID || e.EnvelopeGroupID == IncomeEnvelopeGroupID
}
