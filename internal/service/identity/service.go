// Package identity handles registration, session login and profile edits over
// the users document.
package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"sync"

	"toystore/internal/domain"
	userrepo "toystore/internal/repository/user"
)

// ErrInvalidCredentials is returned when email/password do not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

const (
	usernameMin = 3
	passwordMin = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service manages storefront accounts. Passwords are stored as entered.
type Service struct {
	repo   userrepo.Repository
	logger *log.Logger

	// serializes read-modify-write of the users document
	mu sync.Mutex
}

func New(repo userrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// RegisterInput captures the registration form.
type RegisterInput struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	FavoriteToyTypes []int  `json:"favoriteToyTypes"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword"`
}

// ProfileInput captures a profile edit. An empty Password keeps the old one.
type ProfileInput struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	FavoriteToyTypes []int  `json:"favoriteToyTypes"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword"`
}

type contact struct {
	firstName, lastName, email, phone, address, username string
	favorites                                            []int
}

func (c *contact) trim() {
	c.firstName = strings.TrimSpace(c.firstName)
	c.lastName = strings.TrimSpace(c.lastName)
	c.email = strings.TrimSpace(c.email)
	c.phone = strings.TrimSpace(c.phone)
	c.address = strings.TrimSpace(c.address)
	c.username = strings.TrimSpace(c.username)
}

func (c contact) validate() error {
	switch {
	case c.firstName == "":
		return domain.Invalid("firstName", "first name is required")
	case c.lastName == "":
		return domain.Invalid("lastName", "last name is required")
	case c.email == "":
		return domain.Invalid("email", "email is required")
	case !emailPattern.MatchString(c.email):
		return domain.Invalid("email", "enter a valid email address")
	case c.phone == "":
		return domain.Invalid("phone", "phone is required")
	case c.address == "":
		return domain.Invalid("address", "address is required")
	case len(c.favorites) == 0:
		return domain.Invalid("favoriteToyTypes", "choose at least one favorite toy type")
	case c.username == "":
		return domain.Invalid("username", "username is required")
	case len([]rune(c.username)) < usernameMin:
		return domain.Invalid("username", fmt.Sprintf("username must be at least %d characters", usernameMin))
	}
	return nil
}

func validatePassword(password, confirm string) error {
	if password == "" {
		return domain.Invalid("password", "password is required")
	}
	if len([]rune(password)) < passwordMin {
		return domain.Invalid("password", fmt.Sprintf("password must be at least %d characters", passwordMin))
	}
	if password != confirm {
		return domain.Invalid("confirmPassword", "passwords do not match")
	}
	return nil
}

// checkUnique rejects a username or email held by any user other than selfID.
func checkUnique(users []domain.User, selfID int, username, email string) error {
	for _, u := range users {
		if u.ID != selfID && u.Username == username {
			return &domain.ValidationError{Field: "username", Message: "username already exists", Err: domain.ErrAlreadyExists}
		}
	}
	for _, u := range users {
		if u.ID != selfID && u.Email == email {
			return &domain.ValidationError{Field: "email", Message: "email is already registered", Err: domain.ErrAlreadyExists}
		}
	}
	return nil
}

func nextID(users []domain.User) int {
	highest := 0
	for _, u := range users {
		if u.ID > highest {
			highest = u.ID
		}
	}
	return highest + 1
}

// Register validates in and appends a new user. It does not log the user in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	c := contact{
		firstName: in.FirstName, lastName: in.LastName, email: in.Email,
		phone: in.Phone, address: in.Address, username: in.Username,
		favorites: in.FavoriteToyTypes,
	}
	c.trim()
	if err := c.validate(); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkUnique(users, 0, c.username, c.email); err != nil {
		return nil, err
	}

	u := domain.User{
		ID:               nextID(users),
		FirstName:        c.firstName,
		LastName:         c.lastName,
		Email:            c.email,
		Phone:            c.phone,
		Address:          c.address,
		FavoriteToyTypes: append([]int(nil), c.favorites...),
		Username:         c.username,
		Password:         in.Password,
	}
	// An unreadable users document was listed as empty, so this save replaces it.
	if err := s.repo.SaveAll(ctx, append(users, u)); err != nil {
		return nil, err
	}
	s.logger.Printf("identity: registered id=%d username=%s", u.ID, u.Username)
	return &u, nil
}

// Login matches email and password exactly and records the session's current user.
func (s *Service) Login(ctx context.Context, sessionID, email, password string) (*domain.SessionUser, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.Invalid("email", "email is required")
	}
	if password == "" {
		return nil, domain.Invalid("password", "password is required")
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email && u.Password == password {
			rec := u.SessionRecord()
			if err := s.repo.SetCurrent(ctx, sessionID, rec); err != nil {
				return nil, err
			}
			s.logger.Printf("identity: login id=%d session=%s", u.ID, sessionID)
			return &rec, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// Logout clears the session's current user only.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.repo.ClearCurrent(ctx, sessionID)
}

// Current returns the session's current user, or domain.ErrNotLoggedIn.
func (s *Service) Current(ctx context.Context, sessionID string) (*domain.SessionUser, error) {
	u, err := s.repo.Current(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotLoggedIn
		}
		return nil, err
	}
	return u, nil
}

// Profile returns the stored user behind sess.
func (s *Service) Profile(ctx context.Context, sess domain.Session) (*domain.User, error) {
	if !sess.LoggedIn() {
		return nil, domain.ErrNotLoggedIn
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == sess.UserID {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// UpdateProfile edits the logged-in user. Uniqueness ignores the user's own
// record, and the session's current user is refreshed on success.
func (s *Service) UpdateProfile(ctx context.Context, sess domain.Session, in ProfileInput) (*domain.User, error) {
	if !sess.LoggedIn() {
		return nil, domain.ErrNotLoggedIn
	}
	c := contact{
		firstName: in.FirstName, lastName: in.LastName, email: in.Email,
		phone: in.Phone, address: in.Address, username: in.Username,
		favorites: in.FavoriteToyTypes,
	}
	c.trim()
	if err := c.validate(); err != nil {
		return nil, err
	}
	if in.Password != "" {
		if err := validatePassword(in.Password, in.ConfirmPassword); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range users {
		if users[i].ID == sess.UserID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	if err := checkUnique(users, sess.UserID, c.username, c.email); err != nil {
		return nil, err
	}

	u := &users[idx]
	u.FirstName = c.firstName
	u.LastName = c.lastName
	u.Email = c.email
	u.Phone = c.phone
	u.Address = c.address
	u.FavoriteToyTypes = append([]int(nil), c.favorites...)
	u.Username = c.username
	if in.Password != "" {
		u.Password = in.Password
	}

	if err := s.repo.SaveAll(ctx, users); err != nil {
		return nil, err
	}
	if err := s.repo.SetCurrent(ctx, sess.ID, u.SessionRecord()); err != nil {
		return nil, err
	}
	s.logger.Printf("identity: profile updated id=%d", u.ID)
	updated := *u
	return &updated, nil
}
