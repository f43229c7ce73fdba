package dto

type UserResponse struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  string `json:"isActive"`
	CreatedAt string `json:"createdAt"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Password string `json:"password" binding:"omitempty,min=8"`
}
