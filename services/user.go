package services

import (
	"context"
	"net/http"

	"github.com/octabyte/yoga-studio/enums"
	"github.com/octabyte/yoga-studio/models"
	"github.com/octabyte/yoga-studio/transport"
)

var userPath = "/" + enums.UserResource + "/{id}"

type UserAPI struct {
	client *transport.Client
}

func NewUserAPI(client *transport.Client) *UserAPI {
	return &UserAPI{client: client}
}

func (s *UserAPI) Detail(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.client.Do(ctx, transport.Call{
		Operation:  "user.detail",
		Method:     http.MethodGet,
		Path:       userPath,
		PathParams: map[string]string{"id": id},
		Result:     &user,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes the account. The caller logs the store out when the
// account was its own.
func (s *UserAPI) Delete(ctx context.Context, id string) error {
	return s.client.Do(ctx, transport.Call{
		Operation:  "user.delete",
		Method:     http.MethodDelete,
		Path:       userPath,
		PathParams: map[string]string{"id": id},
	})
}
