package auth

type LoginPayload struct {
	Username string `json:"username" form:"username" validate:"required,max=150"`
	Password string `json:"password" form:"password" validate:"required"`
	Next     string `json:"next" form:"next"`
}

type SetupPayload struct {
	Username string  `json:"username" validate:"required,min=3,max=150"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
}

type StatusResponse struct {
	NeedsSetup bool `json:"needs_setup"`
}

type LoginFormResponse struct {
	Message string   `json:"message"`
	Next    string   `json:"next,omitempty"`
	Fields  []string `json:"fields"`
}

type MeResponse struct {
	ID          int      `json:"id"`
	Username    string   `json:"username"`
	Email       *string  `json:"email,omitempty"`
	RoleID      int      `json:"role_id"`
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
	IsStaff     bool     `json:"is_staff"`
	Next        string   `json:"next,omitempty"`
}
