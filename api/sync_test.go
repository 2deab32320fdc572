package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"budget/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncRouter(t *testing.T) (*gin.Engine, *SyncHandler) {
	gin.SetMode(gin.TestMode)
	h := NewSyncHandler(newTestStore(t))
	router := gin.New()
	router.GET("/sync/:entity", h.List)
	router.PUT("/sync/:entity", h.Put)
	return router, h
}

func doRequest(router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeList[D any](t *testing.T, w *httptest.ResponseRecorder) []D {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data []D `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestSyncHandler_PutAndList(t *testing.T) {
	router, _ := newSyncRouter(t)

	a := models.AccountDto{ID: models.NewGUID(), Description: "Checking", OnBudget: true}
	b := models.AccountDto{ID: models.NewGUID(), Description: "Savings", Hidden: true}
	body, _ := json.Marshal([]models.AccountDto{a, b})

	w := doRequest(router, "PUT", "/sync/accounts", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"count":2`)

	all := decodeList[models.AccountDto](t, doRequest(router, "GET", "/sync/accounts", nil))
	assert.Len(t, all, 2)

	one := decodeList[models.AccountDto](t, doRequest(router, "GET", "/sync/accounts?id="+b.ID.String(), nil))
	require.Len(t, one, 1)
	assert.Equal(t, b, one[0])

	two := decodeList[models.AccountDto](t, doRequest(router, "GET", "/sync/accounts?id="+a.ID.String()+"&id="+b.ID.String(), nil))
	assert.Len(t, two, 2)

	// 空的 id 参数不匹配任何记录
	none := decodeList[models.AccountDto](t, doRequest(router, "GET", "/sync/accounts?id=", nil))
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSyncHandler_SeededEnvelopes(t *testing.T) {
	router, _ := newSyncRouter(t)

	envelopes := decodeList[models.EnvelopeDto](t, doRequest(router, "GET", "/sync/envelopes?id="+models.BufferEnvelopeID.String(), nil))
	require.Len(t, envelopes, 1)
	assert.Equal(t, models.BufferName, envelopes[0].Description)
	assert.Equal(t, models.IncomeEnvelopeGroupID, envelopes[0].EnvelopeGroupID)
}

func TestSyncHandler_Budgets(t *testing.T) {
	router, _ := newSyncRouter(t)

	group := models.EnvelopeGroupDto{ID: models.NewGUID(), Description: "Bills"}
	envelope := models.EnvelopeDto{ID: models.NewGUID(), Description: "Rent", EnvelopeGroupID: group.ID}
	schedule := models.NewBudgetScheduleDto(models.MonthSchedule(2026, 3))
	schedule.ID = models.NewGUID()
	budget := models.BudgetDto{ID: models.NewGUID(), Amount: decimal.RequireFromString("500.00"), EnvelopeID: envelope.ID, BudgetScheduleID: schedule.ID}

	steps := []struct {
		path string
		body interface{}
	}{
		{"/sync/envelope-groups", []models.EnvelopeGroupDto{group}},
		{"/sync/envelopes", []models.EnvelopeDto{envelope}},
		{"/sync/budget-schedules", []models.BudgetScheduleDto{schedule}},
		{"/sync/budgets", []models.BudgetDto{budget}},
	}
	for _, s := range steps {
		body, _ := json.Marshal(s.body)
		w := doRequest(router, "PUT", s.path, body)
		require.Equal(t, http.StatusOK, w.Code, "%s: %s", s.path, w.Body.String())
	}

	budgets := decodeList[models.BudgetDto](t, doRequest(router, "GET", "/sync/budgets", nil))
	require.Len(t, budgets, 1)
	assert.True(t, budget.Amount.Equal(budgets[0].Amount))
	assert.Equal(t, envelope.ID, budgets[0].EnvelopeID)

	// 违反外键的整批回滚，返回 409
	orphan := models.BudgetDto{ID: models.NewGUID(), Amount: decimal.NewFromInt(1), EnvelopeID: models.NewGUID(), BudgetScheduleID: schedule.ID}
	body, _ := json.Marshal([]models.BudgetDto{orphan})
	w := doRequest(router, "PUT", "/sync/budgets", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	budgets = decodeList[models.BudgetDto](t, doRequest(router, "GET", "/sync/budgets", nil))
	assert.Len(t, budgets, 1)
}

func TestSyncHandler_BadRequests(t *testing.T) {
	router, _ := newSyncRouter(t)

	assert.Equal(t, http.StatusNotFound, doRequest(router, "GET", "/sync/users", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(router, "PUT", "/sync/users", []byte("[]")).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, "GET", "/sync/accounts?id=not-a-guid", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, "PUT", "/sync/accounts", []byte("{oops")).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, "PUT", "/sync/accounts", []byte(`[{"id":"bad"}]`)).Code)
}

func TestParseFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := models.NewGUID()

	tests := []struct {
		name    string
		query   string
		wantNil bool
		wantLen int
		wantErr bool
	}{
		{"absent", "", true, 0, false},
		{"empty value", "id=", false, 0, false},
		{"single", "id=" + id.String(), false, 1, false},
		{"mixed empty", "id=&id=" + id.String(), false, 1, false},
		{"invalid", "id=xyz", false, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/sync/accounts?"+tt.query, nil)
			filter, err := parseFilter(c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNil, filter == nil)
			assert.Len(t, filter, tt.wantLen)
		})
	}
}
