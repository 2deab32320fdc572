package service

import (
	"context"
	"fmt"
	"sort"

	"budget/database"
	"budget/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// 工作表名称
const (
	SheetAccounts     = "Accounts"
	SheetBudgets      = "Budgets"
	SheetTransactions = "Transactions"
)

// WorkbookService 导出 Excel 工作簿
type WorkbookService struct {
	store *database.Store
}

// NewWorkbookService 创建导出服务
func NewWorkbookService(store *database.Store) *WorkbookService {
	return &WorkbookService{store: store}
}

type workbookStyles struct {
	header, data, amount, summary int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	var s workbookStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.data, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.amount, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:    border,
		NumFmt:    4, // #,##0.00
	}); err != nil {
		return s, err
	}
	s.summary, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    border,
		NumFmt:    4,
	})
	return s, err
}

// sheetWriter 逐行写入一个工作表
type sheetWriter struct {
	f      *excelize.File
	name   string
	styles workbookStyles
	row    int
	err    error
}

func (w *sheetWriter) header(widths []float64, titles ...string) {
	for i, title := range titles {
		col, _ := excelize.ColumnNumberToName(i + 1)
		w.set(i+1, 1, title, w.styles.header)
		if i < len(widths) {
			w.keep(w.f.SetColWidth(w.name, col, col, widths[i]))
		}
	}
	w.row = 1
}

// line 写入一行，decimal 值按数字写入并使用金额样式
func (w *sheetWriter) line(values ...interface{}) {
	w.row++
	for i, v := range values {
		style := w.styles.data
		if d, ok := v.(decimal.Decimal); ok {
			v, style = d.InexactFloat64(), w.styles.amount
		}
		w.set(i+1, w.row, v, style)
	}
}

func (w *sheetWriter) set(col, row int, v interface{}, style int) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.keep(err)
		return
	}
	w.keep(w.f.SetCellValue(w.name, cell, v))
	w.keep(w.f.SetCellStyle(w.name, cell, cell, style))
}

func (w *sheetWriter) keep(err error) {
	if w.err == nil && err != nil {
		w.err = fmt.Errorf("写入工作表 %s: %w", w.name, err)
	}
}

// Build 生成包含账户（含余额）、预算、流水三个工作表的工作簿
// 调用方负责关闭返回的文件
func (s *WorkbookService) Build(ctx context.Context) (*excelize.File, error) {
	f := excelize.NewFile()
	styles, err := newWorkbookStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetName("Sheet1", SheetAccounts); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetBudgets, SheetTransactions} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	steps := []func(context.Context, *sheetWriter) error{
		s.writeAccounts, s.writeBudgets, s.writeTransactions,
	}
	for i, name := range []string{SheetAccounts, SheetBudgets, SheetTransactions} {
		w := &sheetWriter{f: f, name: name, styles: styles}
		if err := steps[i](ctx, w); err != nil {
			f.Close()
			return nil, err
		}
		if w.err != nil {
			f.Close()
			return nil, w.err
		}
	}
	return f, nil
}

func (s *WorkbookService) writeAccounts(ctx context.Context, w *sheetWriter) error {
	accounts, err := s.store.Accounts.ReadAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("读取账户失败: %w", err)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Description < accounts[j].Description })

	w.header([]float64{24, 10, 16, 10, 30}, "Account", "On Budget", "Balance", "State", "Notes")
	total := decimal.Zero
	for _, a := range accounts {
		balance, err := s.store.Transactions.AccountBalance(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("计算账户余额失败: %w", err)
		}
		if a.OnBudget && !a.IsDeleted() {
			total = total.Add(balance)
		}
		w.line(a.Description, a.OnBudget, balance, a.State().String(), a.Notes)
	}

	// 汇总行：参与预算账户的余额合计
	row := w.row + 1
	w.set(1, row, "On-budget total", w.styles.summary)
	w.set(2, row, "", w.styles.summary)
	w.set(3, row, total.InexactFloat64(), w.styles.summary)
	return nil
}

func (s *WorkbookService) writeBudgets(ctx context.Context, w *sheetWriter) error {
	budgets, err := s.store.Budgets.ReadAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("读取预算失败: %w", err)
	}
	sort.Slice(budgets, func(i, j int) bool {
		a, b := budgets[i], budgets[j]
		if !a.BudgetSchedule.BeginDate.Equal(b.BudgetSchedule.BeginDate) {
			return a.BudgetSchedule.BeginDate.Before(b.BudgetSchedule.BeginDate)
		}
		if a.Envelope.EnvelopeGroup.Description != b.Envelope.EnvelopeGroup.Description {
			return a.Envelope.EnvelopeGroup.Description < b.Envelope.EnvelopeGroup.Description
		}
		return a.Envelope.Description < b.Envelope.Description
	})

	w.header([]float64{12, 12, 20, 24, 14, 16}, "Begin", "End", "Group", "Envelope", "Amount", "Ignore Overspend")
	for _, b := range budgets {
		w.line(
			b.BudgetSchedule.BeginDate.Format("2006-01-02"),
			b.BudgetSchedule.EndDate.Format("2006-01-02"),
			b.Envelope.EnvelopeGroup.Description,
			b.Envelope.Description,
			b.Amount,
			b.IgnoreOverspend,
		)
	}
	return nil
}

func (s *WorkbookService) writeTransactions(ctx context.Context, w *sheetWriter) error {
	txns, err := s.store.Transactions.ReadAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("读取流水失败: %w", err)
	}
	live := txns[:0]
	for _, t := range txns {
		if !t.IsDeleted() {
			live = append(live, t)
		}
	}
	sort.SliceStable(live, func(i, j int) bool { return live[i].ServiceDate.Before(live[j].ServiceDate) })

	w.header([]float64{12, 20, 20, 20, 14, 8, 10, 30}, "Date", "Account", "Payee", "Envelope", "Amount", "Posted", "Reconciled", "Notes")
	for _, t := range live {
		w.line(
			t.ServiceDate.Format("2006-01-02"),
			t.Account.Description,
			t.Payee.Description,
			envelopeLabel(t.Envelope),
			t.Amount,
			t.Posted,
			t.IsReconciled(),
			t.Notes,
		)
	}
	return nil
}

func envelopeLabel(e models.Envelope) string {
	if e.EnvelopeGroup.Description == "" {
		return e.Description
	}
	return e.EnvelopeGroup.Description + " / " + e.Description
}
