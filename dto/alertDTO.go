package dto

type CreateAlertRequest struct {
	Type        string `json:"type" binding:"omitempty,oneof=relance rendez-vous"`
	Company     string `json:"company" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Agency      string `json:"agency"`
	Step        int    `json:"step" binding:"omitempty,min=1"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

type UpdateAlertRequest struct {
	Type        *string `json:"type" binding:"omitempty,oneof=relance rendez-vous"`
	Company     *string `json:"company" binding:"omitempty,min=1"`
	Date        *string `json:"date"`
	Agency      *string `json:"agency"`
	Step        *int    `json:"step" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	Action      *string `json:"action"`
}
