package models

import (
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/octabyte/yoga-studio/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionDecodesBackendPayload(t *testing.T) {
	payload := `{
		"id": 7,
		"name": "Yin",
		"description": "slow flow",
		"date": "2024-03-10T00:00:00.000+00:00",
		"teacher_id": 2,
		"users": [1, 4],
		"createdAt": "2024-03-01T10:15:00",
		"updatedAt": "2024-03-01"
	}`

	var s Session
	require.NoError(t, json.Unmarshal([]byte(payload), &s))

	require.NotNil(t, s.ID)
	assert.Equal(t, int64(7), *s.ID)
	assert.Equal(t, NewDate(2024, time.March, 10), s.Date)
	assert.Equal(t, int64(2), s.TeacherID)
	assert.True(t, s.HasUser(4))
	assert.False(t, s.HasUser(2))
	assert.Equal(t, 2, s.Attendees())
	require.NotNil(t, s.CreatedAt)
	assert.Equal(t, 10, s.CreatedAt.Hour())
	require.NotNil(t, s.UpdatedAt)
	assert.Equal(t, time.March, s.UpdatedAt.Month())
}

func TestSessionEncodesForCreate(t *testing.T) {
	s := Session{
		Name:        "Vinyasa",
		Description: "morning class",
		Date:        NewDate(2024, time.March, 10),
		TeacherID:   1,
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Vinyasa","description":"morning class","date":"2024-03-10","teacher_id":1}`, string(data))
}

func TestDateNull(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())

	data, err := json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	assert.Error(t, json.Unmarshal([]byte(`"someday"`), &d))
}

func TestSessionInformation(t *testing.T) {
	info := SessionInformation{ID: 1, Username: "userName", Token: "tok", Type: "Bearer", Admin: true}
	assert.Equal(t, enums.RoleAdmin, info.Role())

	info.Admin = false
	assert.Equal(t, enums.RoleMember, info.Role())
}

func TestValidateLoginRequest(t *testing.T) {
	tests := []struct {
		name   string
		req    LoginRequest
		field  string
		rule   string
		wantOK bool
	}{
		{"valid", LoginRequest{Email: "yoga@studio.com", Password: "test!1234"}, "", "", true},
		{"missing email", LoginRequest{Password: "test!1234"}, "email", "required", false},
		{"malformed email", LoginRequest{Email: "test", Password: "test!1234"}, "email", "email", false},
		{"missing password", LoginRequest{Email: "yoga@studio.com"}, "password", "required", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantOK {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.True(t, verr.Has(tt.field, tt.rule), "expected %s (%s) in %v", tt.field, tt.rule, verr)
		})
	}
}

func TestValidateRegisterRequest(t *testing.T) {
	err := Validate(RegisterRequest{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 4)

	err = Validate(RegisterRequest{Email: "test@example.com", FirstName: "John", LastName: "Doe", Password: "Password123"})
	assert.NoError(t, err)

	err = Validate(RegisterRequest{Email: "test@example.com", FirstName: "Jo", LastName: "Doe", Password: "Password123"})
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("firstName", "min"))
}

func TestValidateSession(t *testing.T) {
	err := Validate(Session{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("name", "required"))
	assert.True(t, verr.Has("description", "required"))
	assert.True(t, verr.Has("date", "required"))
	assert.True(t, verr.Has("teacher_id", "required"))
	assert.Contains(t, verr.Error(), "validation failed: ")

	err = Validate(Session{Name: "Yin", Description: "slow", Date: NewDate(2024, time.March, 1), TeacherID: 1})
	assert.NoError(t, err)
}
