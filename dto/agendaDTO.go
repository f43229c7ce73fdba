package dto

import "github.com/Senorsean/crm-employ-2025-sub001/model"

type AgendaResponse struct {
	Appointments []model.Appointment `json:"appointments"`
	Alerts       []model.Alert       `json:"alerts"`
	Sync         SyncResponse        `json:"sync"`
	Errors       *StoreErrors        `json:"errors,omitempty"`
}

// StoreErrors carries the last failed operation of each list, if any.
type StoreErrors struct {
	Appointments string `json:"appointments,omitempty"`
	Alerts       string `json:"alerts,omitempty"`
}

type SyncResponse struct {
	Created      int `json:"created"`
	Adopted      int `json:"adopted"`
	Removed      int `json:"removed"`
	StatusSynced int `json:"statusSynced"`
}
