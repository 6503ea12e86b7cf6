package models

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,min=3,max=20"`
	LastName  string `json:"lastName" validate:"required,min=3,max=20"`
	Password  string `json:"password" validate:"required,min=3,max=40"`
}

// MessageResponse is the generic {"message": ...} body of the studio API.
type MessageResponse struct {
	Message string `json:"message"`
}
