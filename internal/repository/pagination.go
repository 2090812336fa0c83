package repository

import "gorm.io/gorm"

// 列表接口默认每页条数上限，防止一次拉全表
const maxPageSize = 100

// applyPagination 应用分页参数，统一处理非法页码与超限每页条数。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
