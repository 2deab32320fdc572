package api

import (
	"context"
	"errors"
	"fmt"

	"budget/database"
	"budget/models"

	"github.com/gin-gonic/gin"
)

// syncRoute 一类实体的同步读写
type syncRoute interface {
	list(ctx context.Context, filter database.IDFilter) (interface{}, error)
	put(ctx context.Context, c *gin.Context) (int, error)
}

// errPayload 请求体无法解析
type errPayload struct{ err error }

func (e errPayload) Error() string { return e.err.Error() }

type mapperRoute[T any, D any] struct {
	mapper *database.DtoMapper[T, D]
}

func (r mapperRoute[T, D]) list(ctx context.Context, filter database.IDFilter) (interface{}, error) {
	return r.mapper.ReadAll(ctx, filter)
}

func (r mapperRoute[T, D]) put(ctx context.Context, c *gin.Context) (int, error) {
	var dtos []D
	if err := c.ShouldBindJSON(&dtos); err != nil {
		return 0, errPayload{err}
	}
	return len(dtos), r.mapper.Import(ctx, dtos)
}

func route[T any, D any](m *database.DtoMapper[T, D]) syncRoute {
	return mapperRoute[T, D]{mapper: m}
}

// SyncHandler 设备间同步
type SyncHandler struct {
	routes map[string]syncRoute
}

// NewSyncHandler 创建同步处理器
func NewSyncHandler(store *database.Store) *SyncHandler {
	m := store.Sync
	return &SyncHandler{routes: map[string]syncRoute{
		"accounts":         route(m.Accounts),
		"payees":           route(m.Payees),
		"envelope-groups":  route(m.EnvelopeGroups),
		"envelopes":        route(m.Envelopes),
		"budget-schedules": route(m.BudgetSchedules),
		"budgets":          route(m.Budgets),
		"transactions":     route(m.Transactions),
	}}
}

func (h *SyncHandler) lookup(c *gin.Context) (syncRoute, bool) {
	r, ok := h.routes[c.Param("entity")]
	if !ok {
		NotFound(c, "未知的实体类型: "+c.Param("entity"))
	}
	return r, ok
}

// parseFilter 解析重复的 id 查询参数
// 未提供 id 时不过滤；提供了但全为空值时返回空过滤条件（匹配不到任何记录）
func parseFilter(c *gin.Context) (database.IDFilter, error) {
	values, present := c.GetQueryArray("id")
	if !present {
		return nil, nil
	}
	ids := make([]models.GUID, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		id, err := models.ParseGUID(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return database.Filter(ids...), nil
}

// List 读取实体
// @Summary 读取同步数据
// @Tags 同步
// @Produce json
// @Security BearerAuth
// @Param entity path string true "实体类型，如 accounts、transactions"
// @Param id query []string false "按 Id 过滤，可重复；空值表示不匹配任何记录"
// @Success 200 {object} Response "读取成功"
// @Router /api/v1/sync/{entity} [get]
func (h *SyncHandler) List(c *gin.Context) {
	r, ok := h.lookup(c)
	if !ok {
		return
	}
	filter, err := parseFilter(c)
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "无效的 id"))
		return
	}
	list, err := r.list(c.Request.Context(), filter)
	if err != nil {
		StoreError(c, err, "读取数据失败")
		return
	}
	Success(c, list)
}

// Put 批量写入：Id 已存在则覆盖，否则插入，整批在一个事务内
// @Summary 写入同步数据
// @Tags 同步
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entity path string true "实体类型"
// @Success 200 {object} Response "写入成功"
// @Failure 409 {object} Response "违反约束，整批回滚"
// @Router /api/v1/sync/{entity} [put]
func (h *SyncHandler) Put(c *gin.Context) {
	r, ok := h.lookup(c)
	if !ok {
		return
	}
	n, err := r.put(c.Request.Context(), c)
	var bad errPayload
	switch {
	case errors.As(err, &bad):
		BadRequest(c, "请求体格式错误: "+SafeErrorMessage(bad.err, "无法解析"))
	case err != nil:
		StoreError(c, err, "写入数据失败")
	default:
		Success(c, gin.H{"count": n, "message": fmt.Sprintf("已写入 %d 条", n)})
	}
}
