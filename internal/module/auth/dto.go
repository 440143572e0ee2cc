package auth

// LoginRequest represents the input for admin login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=1"`
}

// LoginResponse is the public session data returned after login.
type LoginResponse struct {
	AdminName  string `json:"admin_name"`
	AdminEmail string `json:"admin_email"`
	ExpiresAt  int64  `json:"expires_at"`
}
