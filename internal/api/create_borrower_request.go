package api

// swagger:model api.CreateBorrowerRequest
type CreateBorrowerRequest struct {
	Name      string `json:"name" form:"name" validate:"required,max=100" example:"Bob Lin"`
	Username  string `json:"username" form:"username" validate:"required,alphanum,min=3,max=50" example:"bob"`
	Password  string `json:"password" form:"password" validate:"required,min=6" example:"Secret123!"`
	Role      string `json:"role" form:"role" validate:"required,oneof=librarian student user" example:"student"`
	Course    string `json:"course" form:"course" validate:"max=100" example:"BSCS"`
	YearLevel int    `json:"year_level" form:"year_level" validate:"gte=0,lte=10" example:"1"`
}
