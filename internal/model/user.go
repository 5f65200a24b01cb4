package model

// User represents a registered account
type User struct {
	Base
	Username     string  `json:"username" db:"username"`
	PasswordHash string  `json:"-" db:"password"`
	FirstName    *string `json:"firstName,omitempty" db:"first_name"`
	LastName     *string `json:"lastName,omitempty" db:"last_name"`
	Age          *int    `json:"age,omitempty" db:"age"`
	Gender       *string `json:"gender,omitempty" db:"gender"`
	Email        *string `json:"email,omitempty" db:"email"`
}

// NewUser carries a user to be inserted; the password is already hashed.
type NewUser struct {
	Username     string
	PasswordHash string
	FirstName    *string
	LastName     *string
	Age          *int
	Gender       *string
	Email        *string
}

// UserUpdate holds the mutable profile fields. Nil means unchanged.
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	Age          *int
	Gender       *string
	Email        *string
	PasswordHash *string
}

// UpdateUserRequest represents profile update parameters
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName" binding:"omitempty,max=100"`
	Age       *int    `json:"age" binding:"omitempty,min=1,max=120"`
	Gender    *string `json:"gender" binding:"omitempty,max=50"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// ChangePasswordRequest represents password change parameters
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required,min=6"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required,eqfield=NewPassword"`
}
