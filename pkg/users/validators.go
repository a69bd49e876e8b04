package users

type CreateUserPayload struct {
	Username string  `json:"username" validate:"required,min=3,max=150"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
	RoleID   int     `json:"role_id" validate:"required_without=RoleName"`
	RoleName string  `json:"role_name" validate:"omitempty,oneof=admin librarian member"`
}

type UpdateUserPayload struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=150"`
	Email    *string `json:"email" validate:"omitempty,email"`
	RoleID   *int    `json:"role_id"`
	IsActive *bool   `json:"is_active"`
}

type ResetPasswordPayload struct {
	CurrentPassword *string `json:"current_password"`
	NewPassword     string  `json:"new_password" validate:"required,min=8"`
}

type ListUsersQuery struct {
	Limit  int `query:"limit" default:"50" validate:"min=1,max=200"`
	Offset int `query:"offset" validate:"min=0"`
}
