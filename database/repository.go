package database

import (
	"context"
	"errors"

	"budget/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// filterChunkSize 单条 IN 语句的最大参数个数
const filterChunkSize = 500

// IDFilter 批量读取的 Id 过滤条件
// nil 表示不过滤；非 nil 的空切片表示不匹配任何记录，直接返回空结果且不访问数据库
type IDFilter []models.GUID

// Filter 便捷构造
func Filter(ids ...models.GUID) IDFilter {
	if ids == nil {
		return IDFilter{}
	}
	return IDFilter(ids)
}

// excludesAll 过滤条件非 nil 且为空
func (f IDFilter) excludesAll() bool {
	return f != nil && len(f) == 0
}

// Repository 通用实体映射
// 字段与列的对应关系来自实体的 gorm 标签，preloads 列出需要一并读取的父实体
type Repository[T any] struct {
	store    *Store
	preloads []string
}

func newRepository[T any](s *Store, preloads ...string) *Repository[T] {
	return &Repository[T]{store: s, preloads: preloads}
}

func (r *Repository[T]) withPreloads(tx *gorm.DB) *gorm.DB {
	for _, p := range r.preloads {
		tx = tx.Preload(p)
	}
	return tx
}

// Create 插入新记录；主键为零值时自动生成，创建/修改时间为零值时由存储填写
// 关联的父实体不会被写入
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.store.Do(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(entity).Error
	})
}

// Read 按 Id 读取单条记录（含父实体），不存在时返回 ErrNotFound
func (r *Repository[T]) Read(ctx context.Context, id models.GUID) (*T, error) {
	var entity T
	err := r.store.Do(ctx, func(tx *gorm.DB) error {
		return r.withPreloads(tx).Where("Id = ?", id).Take(&entity).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &entity, nil
}

// ReadAll 批量读取，过滤规则见 IDFilter
func (r *Repository[T]) ReadAll(ctx context.Context, filter IDFilter) ([]T, error) {
	if filter.excludesAll() {
		return []T{}, nil
	}
	list := []T{}
	err := r.store.Do(ctx, func(tx *gorm.DB) error {
		return r.findByIDs(tx, filter, &list)
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository[T]) findByIDs(tx *gorm.DB, filter IDFilter, list *[]T) error {
	if filter == nil {
		return r.withPreloads(tx).Find(list).Error
	}
	for start := 0; start < len(filter); start += filterChunkSize {
		end := min(start+filterChunkSize, len(filter))
		var chunk []T
		if err := r.withPreloads(tx).Where("Id IN ?", []models.GUID(filter[start:end])).Find(&chunk).Error; err != nil {
			return err
		}
		*list = append(*list, chunk...)
	}
	return nil
}

// Update 按 Id 更新除 Id、CreatedDateTime 外的全部列，并刷新 ModifiedDateTime
// 没有匹配的记录时返回 ErrNotFound
func (r *Repository[T]) Update(ctx context.Context, entity *T) error {
	return r.store.Do(ctx, func(tx *gorm.DB) error {
		return updateRow(tx, entity)
	})
}

// Modify 在同一次串行操作和同一个事务内完成 读取 -> fn 修改 -> 写回
// fn 返回错误时不写入
func (r *Repository[T]) Modify(ctx context.Context, id models.GUID, fn func(entity *T) error) (*T, error) {
	var entity T
	err := r.store.Do(ctx, func(tx *gorm.DB) error {
		return tx.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("Id = ?", id).Take(&entity).Error; err != nil {
				return notFound(err)
			}
			if err := fn(&entity); err != nil {
				return err
			}
			return updateRow(tx, &entity)
		})
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// find 按附加条件读取多条记录（含父实体）
func (r *Repository[T]) find(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]T, error) {
	list := []T{}
	err := r.store.Do(ctx, func(tx *gorm.DB) error {
		return r.withPreloads(tx).Scopes(scopes...).Find(&list).Error
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func updateRow[T any](tx *gorm.DB, entity *T) error {
	result := tx.Model(entity).Select("*").Omit(clause.Associations, "CreatedDateTime").Updates(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
