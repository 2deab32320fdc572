package models

import (
	"time"

	"gorm.io/gorm"
)

// Model 所有实体共有的主键与时间戳
type Model struct {
	ID               GUID      `json:"id" gorm:"column:Id;primaryKey"`
	CreatedDateTime  time.Time `json:"created_date_time" gorm:"column:CreatedDateTime;autoCreateTime"`
	ModifiedDateTime time.Time `json:"modified_date_time" gorm:"column:ModifiedDateTime;autoUpdateTime"`
}

// BeforeCreate 未指定主键时生成新的 GUID
func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID.IsZero() {
		m.ID = NewGUID()
	}
	return nil
}

// State 软删除实体的生命周期状态
type State int

const (
	StateActive State = iota
	StateHidden
	StateDeleted
)

func (s State) String() string {
	return [...]string{"active", "hidden", "deleted"}[s]
}

// SoftDelete 隐藏/删除时间戳
// 删除必然隐藏：DeletedDateTime 非空时 HiddenDateTime 也必须非空，由数据库触发器强制
type SoftDelete struct {
	DeletedDateTime *time.Time `json:"deleted_date_time" gorm:"column:DeletedDateTime"`
	HiddenDateTime  *time.Time `json:"hidden_date_time" gorm:"column:HiddenDateTime"`
}

// State 当前状态
func (s SoftDelete) State() State {
	switch {
	case s.DeletedDateTime != nil:
		return StateDeleted
	case s.HiddenDateTime != nil:
		return StateHidden
	default:
		return StateActive
	}
}

// IsDeleted 是否已删除
func (s SoftDelete) IsDeleted() bool {
	return s.DeletedDateTime != nil
}

// IsHidden 是否已隐藏（已删除的也视为隐藏）
func (s SoftDelete) IsHidden() bool {
	return s.HiddenDateTime != nil
}

// Hide Active -> Hidden
func (s *SoftDelete) Hide(at time.Time) {
	if s.HiddenDateTime == nil {
		s.HiddenDateTime = &at
	}
}

// Delete Hidden -> Deleted，未隐藏的会先隐藏
func (s *SoftDelete) Delete(at time.Time) {
	s.Hide(at)
	if s.DeletedDateTime == nil {
		s.DeletedDateTime = &at
	}
}

// Restore 清除两个时间戳，回到 Active
func (s *SoftDelete) Restore() {
	s.DeletedDateTime = nil
	s.HiddenDateTime = nil
}
