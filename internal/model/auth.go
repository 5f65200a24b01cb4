package model

// RegisterRequest represents registration parameters
type RegisterRequest struct {
	Username  string  `json:"username" binding:"required,min=1,max=100"`
	Password  string  `json:"password" binding:"required,min=6"`
	FirstName *string `json:"firstName" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName" binding:"omitempty,max=100"`
	Age       *int    `json:"age" binding:"omitempty,min=1,max=120"`
	Gender    *string `json:"gender" binding:"omitempty,max=50"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// LoginRequest represents login parameters
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1"`
	Password string `json:"password" binding:"required"`
}
