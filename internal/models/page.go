package models

// Page is the server's pagination envelope for list endpoints.
type Page[T any] struct {
	Count       int     `json:"count"`
	Next        *string `json:"next"`
	Previous    *string `json:"previous"`
	PageSize    int     `json:"page_size"`
	TotalPages  int     `json:"total_pages"`
	CurrentPage int     `json:"current_page"`
	Results     []T     `json:"results"`
}
