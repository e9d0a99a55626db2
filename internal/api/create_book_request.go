package api

// swagger:model api.CreateBookRequest
type CreateBookRequest struct {
	Title  string `json:"title" form:"title" validate:"required,max=200" example:"The Go Programming Language"`
	Author string `json:"author" form:"author" validate:"required,max=200" example:"Alan Donovan"`
}
