package dto

type ReminderRequest struct {
	Enabled     bool   `json:"enabled"`
	LeadMinutes string `json:"leadMinutes"`
	Channel     string `json:"channel" binding:"omitempty,oneof=email notification both"`
}

type CreateAppointmentRequest struct {
	Title    string           `json:"title" binding:"required"`
	Date     string           `json:"date" binding:"required"`
	Time     string           `json:"time"`
	Agency   string           `json:"agency"`
	Contact  string           `json:"contact"`
	Priority string           `json:"priority" binding:"omitempty,oneof=high medium normal"`
	Status   string           `json:"status" binding:"omitempty,oneof=pending completed late"`
	Reminder *ReminderRequest `json:"reminder"`
}

// UpdateAppointmentRequest only changes the fields present in the body.
type UpdateAppointmentRequest struct {
	Title    *string          `json:"title" binding:"omitempty,min=1"`
	Date     *string          `json:"date"`
	Time     *string          `json:"time"`
	Agency   *string          `json:"agency"`
	Contact  *string          `json:"contact"`
	Priority *string          `json:"priority" binding:"omitempty,oneof=high medium normal"`
	Status   *string          `json:"status" binding:"omitempty,oneof=pending completed late"`
	Reminder *ReminderRequest `json:"reminder"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}
