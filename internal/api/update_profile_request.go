package api

// swagger:model api.UpdateProfileRequest
type UpdateProfileRequest struct {
	Name      string `json:"name" form:"name" validate:"required,max=100" example:"Alice Chen"`
	Course    string `json:"course" form:"course" validate:"max=100" example:"BSIT"`
	YearLevel int    `json:"year_level" form:"year_level" validate:"gte=0,lte=10" example:"3"`
}
