package services

import (
	"context"
	"net/http"

	"github.com/octabyte/yoga-studio/enums"
	"github.com/octabyte/yoga-studio/models"
	"github.com/octabyte/yoga-studio/transport"
)

var (
	teachersPath = "/" + enums.TeacherResource
	teacherPath  = teachersPath + "/{id}"
)

type TeacherAPI struct {
	client *transport.Client
}

func NewTeacherAPI(client *transport.Client) *TeacherAPI {
	return &TeacherAPI{client: client}
}

func (s *TeacherAPI) All(ctx context.Context) ([]models.Teacher, error) {
	teachers := []models.Teacher{}
	err := s.client.Do(ctx, transport.Call{
		Operation: "teacher.all",
		Method:    http.MethodGet,
		Path:      teachersPath,
		Result:    &teachers,
	})
	if err != nil {
		return nil, err
	}
	return teachers, nil
}

func (s *TeacherAPI) Detail(ctx context.Context, id string) (*models.Teacher, error) {
	var teacher models.Teacher
	err := s.client.Do(ctx, transport.Call{
		Operation:  "teacher.detail",
		Method:     http.MethodGet,
		Path:       teacherPath,
		PathParams: map[string]string{"id": id},
		Result:     &teacher,
	})
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}
