package api

// swagger:model api.LoginResponse
type LoginResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"Bearer"`
	// 秒
	ExpiresIn int              `json:"expires_in" example:"3600"`
	Borrower  BorrowerResponse `json:"borrower"`
}
