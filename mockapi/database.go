package mockapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/octabyte/yoga-studio/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	errNotFound    = errors.New("not found")
	errEmailTaken  = errors.New("Error: Email is already taken!")
	errBadPassword = errors.New("bad credentials")
)

type userRecord struct {
	user         models.User
	passwordHash []byte
}

// database holds every record in memory. Records are copied in and out.
type database struct {
	mu       sync.RWMutex
	cost     int
	users    map[int64]*userRecord
	emails   map[string]int64
	teachers map[int64]models.Teacher
	sessions map[int64]models.Session

	nextUserID    int64
	nextSessionID int64
}

func newDatabase(cost int) *database {
	return &database{
		cost:          cost,
		users:         map[int64]*userRecord{},
		emails:        map[string]int64{},
		teachers:      map[int64]models.Teacher{},
		sessions:      map[int64]models.Session{},
		nextUserID:    1,
		nextSessionID: 1,
	}
}

func (db *database) seed() error {
	now := models.NewTime(time.Now().UTC())
	for _, t := range []models.Teacher{
		{ID: 1, FirstName: "Margot", LastName: "DELAHAYE", CreatedAt: now, UpdatedAt: now},
		{ID: 2, FirstName: "Hélène", LastName: "THIERCELIN", CreatedAt: now, UpdatedAt: now},
	} {
		db.teachers[t.ID] = t
	}

	_, err := db.createUser(models.RegisterRequest{
		Email:     AdminEmail,
		FirstName: "Admin",
		LastName:  "Admin",
		Password:  AdminPassword,
	}, true)
	return err
}

func (db *database) createUser(req models.RegisterRequest, admin bool) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), db.cost)
	if err != nil {
		return models.User{}, err
	}

	email := strings.ToLower(req.Email)
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, taken := db.emails[email]; taken {
		return models.User{}, errEmailTaken
	}

	now := models.NewTime(time.Now().UTC())
	record := &userRecord{
		user: models.User{
			ID:        db.nextUserID,
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Admin:     admin,
			CreatedAt: now,
			UpdatedAt: now,
		},
		passwordHash: hash,
	}
	db.nextUserID++
	db.users[record.user.ID] = record
	db.emails[email] = record.user.ID
	return record.user, nil
}

func (db *database) authenticate(email, password string) (models.User, error) {
	db.mu.RLock()
	id, ok := db.emails[strings.ToLower(email)]
	var record userRecord
	if ok {
		record = *db.users[id]
	}
	db.mu.RUnlock()

	if !ok {
		return models.User{}, errBadPassword
	}
	if err := bcrypt.CompareHashAndPassword(record.passwordHash, []byte(password)); err != nil {
		return models.User{}, errBadPassword
	}
	return record.user, nil
}

func (db *database) user(id int64) (models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	record, ok := db.users[id]
	if !ok {
		return models.User{}, errNotFound
	}
	return record.user, nil
}

// deleteUser also drops the user from every session roster.
func (db *database) deleteUser(id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	record, ok := db.users[id]
	if !ok {
		return errNotFound
	}
	delete(db.users, id)
	delete(db.emails, strings.ToLower(record.user.Email))

	for sid, s := range db.sessions {
		s.Users = without(s.Users, id)
		db.sessions[sid] = s
	}
	return nil
}

func (db *database) teacherList() []models.Teacher {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]models.Teacher, 0, len(db.teachers))
	for _, t := range db.teachers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (db *database) teacher(id int64) (models.Teacher, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	t, ok := db.teachers[id]
	if !ok {
		return models.Teacher{}, errNotFound
	}
	return t, nil
}

func (db *database) sessionList() []models.Session {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]models.Session, 0, len(db.sessions))
	for _, s := range db.sessions {
		out = append(out, copySession(s))
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].ID < *out[j].ID })
	return out
}

func (db *database) session(id int64) (models.Session, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	s, ok := db.sessions[id]
	if !ok {
		return models.Session{}, errNotFound
	}
	return copySession(s), nil
}

func (db *database) createSession(s models.Session) models.Session {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.nextSessionID
	db.nextSessionID++

	now := models.NewTime(time.Now().UTC())
	s.ID = &id
	s.Users = dedupe(s.Users)
	s.CreatedAt = now
	s.UpdatedAt = now
	db.sessions[id] = s
	return copySession(s)
}

// updateSession replaces the editable fields and keeps the roster.
func (db *database) updateSession(id int64, next models.Session) (models.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	current, ok := db.sessions[id]
	if !ok {
		return models.Session{}, errNotFound
	}

	current.Name = next.Name
	current.Description = next.Description
	current.Date = next.Date
	current.TeacherID = next.TeacherID
	current.UpdatedAt = models.NewTime(time.Now().UTC())
	db.sessions[id] = current
	return copySession(current), nil
}

func (db *database) deleteSession(id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.sessions[id]; !ok {
		return errNotFound
	}
	delete(db.sessions, id)
	return nil
}

// participate adds userID to the roster once. join false removes it.
func (db *database) participate(id, userID int64, join bool) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	s, ok := db.sessions[id]
	if !ok {
		return errNotFound
	}
	if _, ok := db.users[userID]; !ok {
		return errNotFound
	}

	if join {
		s.Users = dedupe(append(s.Users, userID))
	} else {
		s.Users = without(s.Users, userID)
	}
	db.sessions[id] = s
	return nil
}

func copySession(s models.Session) models.Session {
	if s.ID != nil {
		id := *s.ID
		s.ID = &id
	}
	s.Users = append([]int64{}, s.Users...)
	return s
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func without(ids []int64, userID int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}
