package dto

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Name         string `json:"name" binding:"required"`
	CaptchaToken string `json:"captchaToken"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type CaptchaRequest struct {
	Token  string `json:"token" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type AssessmentResult struct {
	Score   float32  `json:"score"`
	Action  string   `json:"action"`
	Reasons []string `json:"reasons,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}
