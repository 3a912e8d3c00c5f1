package dto

// LoginRequest is the body of POST /authenticate and POST /user/create.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by POST /authenticate.
type TokenResponse struct {
	Token string `json:"token"`
}

// TokenValidationResponse is returned by GET /authenticate.
type TokenValidationResponse struct {
	Valid *bool `json:"valid"`
}
