package models

import "time"

// BudgetSchedule 预算周期，闭区间 [BeginDate, EndDate]
type BudgetSchedule struct {
	Model
	BeginDate time.Time `json:"begin_date" gorm:"column:BeginDate"`
	EndDate   time.Time `json:"end_date" gorm:"column:EndDate"`
}

// TableName 设置表名
func (BudgetSchedule) TableName() string {
	return "BudgetSchedule"
}

// Contains 日期是否落在周期内（按天比较）
func (s BudgetSchedule) Contains(date time.Time) bool {
	d := truncateDay(date)
	return !d.Before(truncateDay(s.BeginDate)) && !d.After(truncateDay(s.EndDate))
}

// MonthSchedule 生成某个自然月的周期
func MonthSchedule(year int, month time.Month) BudgetSchedule {
	begin := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return BudgetSchedule{
		BeginDate: begin,
		EndDate:   begin.AddDate(0, 1, -1),
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
