package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/octabyte/yoga-studio/models"
	otellogger "github.com/octabyte/yoga-studio/otel/logger"
	"github.com/octabyte/yoga-studio/utils"
	"go.uber.org/zap"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"login":          login,
	"register":       register,
	"logout":         logout,
	"whoami":         whoami,
	"sessions":       listSessions,
	"session":        showSession,
	"create":         createSession,
	"update":         updateSession,
	"delete":         deleteSession,
	"participate":    participate(true),
	"unparticipate":  participate(false),
	"teachers":       listTeachers,
	"teacher":        showTeacher,
	"user":           showUser,
	"delete-account": deleteAccount,
	"watch":          watch,
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseInterspersed accepts flags before and after positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%s: %w", fs.Name(), err)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func oneID(name string, args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("%s: expected exactly one id", name)
	}
	return args[0], nil
}

func login(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	var req models.LoginRequest
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.Password, "password", "", "account password")
	if _, err := parseInterspersed(fs, args); err != nil {
		return err
	}

	info, err := a.auth.Login(ctx, req)
	if err != nil {
		return err
	}
	a.sessions.LogIn(*info)
	otellogger.InfoCtx(ctx, "logged in", zap.Int64("user_id", info.ID), zap.String("role", string(info.Role())))
	fmt.Fprintf(a.out, "logged in as %s %s (%s)\n", info.FirstName, info.LastName, info.Role())
	return nil
}

func register(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register")
	var req models.RegisterRequest
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.FirstName, "first", "", "first name")
	fs.StringVar(&req.LastName, "last", "", "last name")
	fs.StringVar(&req.Password, "password", "", "account password")
	if _, err := parseInterspersed(fs, args); err != nil {
		return err
	}

	if err := a.auth.Register(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "registered, you can now log in")
	return nil
}

// logout always clears the local session, even when the server call fails.
func logout(ctx context.Context, a *app, _ []string) error {
	var err error
	if info := a.sessions.SessionInformation(); info != nil {
		err = a.auth.Logout(ctx)
		otellogger.InfoCtx(ctx, "logged out", zap.Int64("user_id", info.ID))
	}
	a.sessions.LogOut()
	fmt.Fprintln(a.out, "logged out")
	return err
}

func whoami(_ context.Context, a *app, _ []string) error {
	info := a.sessions.SessionInformation()
	if info == nil {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}
	info.Token = ""
	return a.print(info)
}

func listSessions(ctx context.Context, a *app, _ []string) error {
	sessions, err := a.api.All(ctx)
	if err != nil {
		return err
	}
	return a.print(sessions)
}

func showSession(ctx context.Context, a *app, args []string) error {
	id, err := oneID("session", args)
	if err != nil {
		return err
	}
	session, err := a.api.Detail(ctx, id)
	if err != nil {
		return err
	}
	return a.print(session)
}

// sessionFlags registers the editable session fields on fs.
func sessionFlags(fs *flag.FlagSet) func() (models.Session, error) {
	name := fs.String("name", "", "session name")
	description := fs.String("description", "", "session description")
	date := fs.String("date", "", "session day, YYYY-MM-DD")
	teacher := fs.Int64("teacher", 0, "teacher id")

	return func() (models.Session, error) {
		session := models.Session{Name: *name, Description: *description, TeacherID: *teacher}
		if *date != "" {
			t, err := utils.ParseTime(*date)
			if err != nil {
				return models.Session{}, fmt.Errorf("invalid -date: %w", err)
			}
			session.Date = models.NewDate(t.Date())
		}
		return session, nil
	}
}

func createSession(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("create")
	build := sessionFlags(fs)
	if _, err := parseInterspersed(fs, args); err != nil {
		return err
	}
	session, err := build()
	if err != nil {
		return err
	}

	created, err := a.api.Create(ctx, session)
	if err != nil {
		return err
	}
	return a.print(created)
}

func updateSession(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("update")
	build := sessionFlags(fs)
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	id, err := oneID("update", positional)
	if err != nil {
		return err
	}
	session, err := build()
	if err != nil {
		return err
	}

	updated, err := a.api.Update(ctx, id, session)
	if err != nil {
		return err
	}
	return a.print(updated)
}

func deleteSession(ctx context.Context, a *app, args []string) error {
	id, err := oneID("delete", args)
	if err != nil {
		return err
	}
	if err := a.api.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "session %s deleted\n", id)
	return nil
}

func participate(join bool) command {
	name := "participate"
	if !join {
		name = "unparticipate"
	}

	return func(ctx context.Context, a *app, args []string) error {
		fs := newFlagSet(name)
		user := fs.String("user", "", "user id, defaults to yourself")
		positional, err := parseInterspersed(fs, args)
		if err != nil {
			return err
		}
		id, err := oneID(name, positional)
		if err != nil {
			return err
		}

		userID := *user
		if userID == "" {
			self, err := a.requireLogin()
			if err != nil {
				return err
			}
			userID = strconv.FormatInt(self, 10)
		}

		if join {
			err = a.api.Participate(ctx, id, userID)
		} else {
			err = a.api.UnParticipate(ctx, id, userID)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s: session %s, user %s\n", name, id, userID)
		return nil
	}
}

func listTeachers(ctx context.Context, a *app, _ []string) error {
	teachers, err := a.teachers.All(ctx)
	if err != nil {
		return err
	}
	for _, t := range teachers {
		fmt.Fprintf(a.out, "#%d %s\n", t.ID, t.FullName())
	}
	return nil
}

func showTeacher(ctx context.Context, a *app, args []string) error {
	id, err := oneID("teacher", args)
	if err != nil {
		return err
	}
	teacher, err := a.teachers.Detail(ctx, id)
	if err != nil {
		return err
	}
	return a.print(teacher)
}

func showUser(ctx context.Context, a *app, args []string) error {
	id, err := oneID("user", args)
	if err != nil {
		return err
	}
	user, err := a.users.Detail(ctx, id)
	if err != nil {
		return err
	}
	return a.print(user)
}

func deleteAccount(ctx context.Context, a *app, _ []string) error {
	self, err := a.requireLogin()
	if err != nil {
		return err
	}
	if err := a.users.Delete(ctx, strconv.FormatInt(self, 10)); err != nil {
		return err
	}
	a.sessions.LogOut()
	fmt.Fprintln(a.out, "account deleted")
	return nil
}

// watch prints the session list on every poll until interrupted or logged
// out.
func watch(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("watch")
	interval := fs.Duration("interval", 30*time.Second, "poll interval")
	tz := fs.String("tz", "Local", "time zone of the printed timestamps")
	if _, err := parseInterspersed(fs, args); err != nil {
		return err
	}
	if *interval <= 0 {
		return errors.New("watch: -interval must be positive")
	}
	if _, err := a.requireLogin(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for logged := range a.sessions.WatchLogged(ctx) {
			if !logged {
				cancel()
			}
		}
	}()

	return a.api.Poll(ctx, *interval, func(sessions []models.Session, err error) {
		stamp := utils.FromUTCToTimezone(time.Now().UTC(), *tz).Format(time.TimeOnly)
		if err != nil {
			fmt.Fprintf(a.out, "%s error: %v\n", stamp, err)
			return
		}
		fmt.Fprintf(a.out, "%s %d session(s)\n", stamp, len(sessions))
		for _, s := range sessions {
			id := int64(0)
			if s.ID != nil {
				id = *s.ID
			}
			fmt.Fprintf(a.out, "  #%d %s %s (%d attendee(s))\n", id, s.Date, s.Name, s.Attendees())
		}
	})
}
