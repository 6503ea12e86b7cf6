package mockapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/yoga-studio/models"
	ctxutil "github.com/octabyte/yoga-studio/utils/context"
)

func (s *Server) login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := s.db.authenticate(req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Bad credentials")
	}

	info, err := s.tokens.issue(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}

func (s *Server) register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	if _, err := s.db.createUser(req, false); err != nil {
		if errors.Is(err, errEmailTaken) {
			return c.JSON(http.StatusBadRequest, models.MessageResponse{Message: errEmailTaken.Error()})
		}
		return err
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "User registered successfully!"})
}

// logout revokes the presented token, if any. It never fails.
func (s *Server) logout(c echo.Context) error {
	if token := ctxutil.GetTokenFromContext(c.Request().Context()); token != "" {
		_ = s.tokens.revoke(token)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) listSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.db.sessionList())
}

func (s *Server) sessionDetail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	session, err := s.db.session(id)
	if err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) createSession(c echo.Context) error {
	var session models.Session
	if err := bindValid(c, &session); err != nil {
		return err
	}
	if _, err := s.db.teacher(session.TeacherID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown teacher")
	}
	return c.JSON(http.StatusOK, s.db.createSession(session))
}

func (s *Server) updateSession(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var session models.Session
	if err := bindValid(c, &session); err != nil {
		return err
	}

	updated, err := s.db.updateSession(id, session)
	if err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteSession(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := s.db.deleteSession(id); err != nil {
		return notFound(err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) participate(c echo.Context) error {
	return s.changeRoster(c, true)
}

func (s *Server) unParticipate(c echo.Context) error {
	return s.changeRoster(c, false)
}

func (s *Server) changeRoster(c echo.Context, join bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if err := s.db.participate(id, userID, join); err != nil {
		return notFound(err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) listTeachers(c echo.Context) error {
	return c.JSON(http.StatusOK, s.db.teacherList())
}

func (s *Server) teacherDetail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	teacher, err := s.db.teacher(id)
	if err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, teacher)
}

func (s *Server) userDetail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := s.db.user(id)
	if err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, user)
}

// deleteUser only lets an account delete itself.
func (s *Server) deleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := s.db.user(id)
	if err != nil {
		return notFound(err)
	}

	caller, _ := ctxutil.GetSessionFromContext(c.Request().Context())
	if caller.ID != user.ID {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	if err := s.db.deleteUser(id); err != nil {
		return notFound(err)
	}
	return c.NoContent(http.StatusOK)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func bindValid(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	if err := models.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, errNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	return err
}
