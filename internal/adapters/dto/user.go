package dto

// UserResponse is one account as returned by /user/me and /user/all.
// The id is absent from /user/me.
type UserResponse struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}
