package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	// FirebasePassword marks accounts whose credentials live in Firebase Auth.
	FirebasePassword = "-"
)

type User struct {
	UserID    string    `firestore:"userid,omitempty" json:"userId"`
	Name      string    `firestore:"name,omitempty" json:"name"`
	Email     string    `firestore:"email,omitempty" json:"email"`
	Password  string    `firestore:"password,omitempty" json:"-"`
	Role      string    `firestore:"role,omitempty" json:"role"`     // "user" or "admin"
	Active    string    `firestore:"active,omitempty" json:"active"` // "0" inactive, "1" active
	CreatedAt time.Time `firestore:"createdat,omitempty" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedat,omitempty" json:"updatedAt"`
}

func (u *User) IsActive() bool {
	return u.Active == "1"
}
