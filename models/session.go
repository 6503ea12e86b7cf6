package models

import "slices"

// Session is a bookable yoga class.
type Session struct {
	ID          *int64  `json:"id,omitempty"`
	Name        string  `json:"name" validate:"required,max=50"`
	Description string  `json:"description" validate:"required,max=2500"`
	Date        Date    `json:"date" validate:"required"`
	TeacherID   int64   `json:"teacher_id" validate:"required"`
	Users       []int64 `json:"users,omitempty"`
	CreatedAt   *Time   `json:"createdAt,omitempty"`
	UpdatedAt   *Time   `json:"updatedAt,omitempty"`
}

// HasUser reports whether userID is on the session roster.
func (s Session) HasUser(userID int64) bool {
	return slices.Contains(s.Users, userID)
}

// Attendees is the roster size.
func (s Session) Attendees() int {
	return len(s.Users)
}
