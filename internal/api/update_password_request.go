package api

// UpdatePasswordRequest 更新自己的密碼，需提供目前的密碼
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" form:"old_password" validate:"required" example:"OldSecret123!"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,min=6,nefield=OldPassword" example:"NewSecret456!"`
}
