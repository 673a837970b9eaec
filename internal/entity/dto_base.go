package entity

const (
	CodeFailure = 0
	CodeSuccess = 1
)

// Response 统一的接口返回结构
type Response struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// Meta 分页信息
type Meta struct {
	Page     int64 `json:"page"`
	PageSize int64 `json:"page_size"`
	Total    int64 `json:"total"`
}

// BaseParams 通用分页参数
type BaseParams struct {
	Page     int64 `json:"page" form:"page" query:"page"`
	PageSize int64 `json:"page_size" form:"page_size" query:"page_size"`
}

// Normalize fills in defaults and clamps the page size.
func (p *BaseParams) Normalize(defaultSize, maxSize int64) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultSize
	}
	if maxSize > 0 && p.PageSize > maxSize {
		p.PageSize = maxSize
	}
}

// Skip returns the row offset of the page.
func (p BaseParams) Skip() int64 {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
