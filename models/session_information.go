package models

import (
	"github.com/octabyte/yoga-studio/enums"
)

// SessionInformation is the identity returned by a successful login.
type SessionInformation struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Token     string `json:"token"`
	Type      string `json:"type"`
	Admin     bool   `json:"admin"`
}

func (s SessionInformation) Role() enums.Role {
	return enums.RoleFromAdmin(s.Admin)
}
