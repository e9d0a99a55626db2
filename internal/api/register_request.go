package api

// RegisterRequest 自行註冊；角色只能是 student 或 user，省略時為 student
// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name      string `json:"name" form:"name" validate:"required,max=100" example:"Alice Chen"`
	Username  string `json:"username" form:"username" validate:"required,alphanum,min=3,max=50" example:"alice"`
	Password  string `json:"password" form:"password" validate:"required,min=6" example:"Secret123!"`
	Role      string `json:"role" form:"role" validate:"omitempty,oneof=student user" example:"student"`
	Course    string `json:"course" form:"course" validate:"max=100" example:"BSIT"`
	YearLevel int    `json:"year_level" form:"year_level" validate:"gte=0,lte=10" example:"2"`
}
