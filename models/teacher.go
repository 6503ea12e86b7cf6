package models

type Teacher struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CreatedAt *Time  `json:"createdAt,omitempty"`
	UpdatedAt *Time  `json:"updatedAt,omitempty"`
}

func (t Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}
