package entity

// Pagination wraps a page of items with its totals
type Pagination[T any] struct {
	Items      []T   `json:"items"`
	TotalItems int64 `json:"total_items"`
	PageNumber int   `json:"page_number"`
	PageSize   int   `json:"page_size"`
}
