package models

// User defines the user model based on the 'users' table
type User struct {
	ID       int64  `json:"id" db:"user_id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
	Role     Role   `json:"role" db:"role"`
}

// Identity returns the login identity of the user
func (u *User) Identity() Identity {
	return Identity{Username: u.Username, Role: u.Role}
}

// NewUser is the input for creating an account
type NewUser struct {
	Username string `json:"username" validate:"notblank,max=100"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"oneof=student teacher"`
}
