// Package user implements the account store of the recipes service:
// registration, credential verification and profile maintenance.
package user

import (
	"fmt"
	"strings"

	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/postgres"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the shortest password accepted at registration
// and profile update.
const MinPasswordLen = 5

// Service owns every read and write of user records.
type Service struct {
	db *postgres.DB
}

func NewService(db *postgres.DB) *Service { return &Service{db: db} }

// A ProfileUpdate carries the optional fields of a profile mutation.
// A nil field leaves the current value untouched.
type ProfileUpdate struct {
	Name     *string
	Password *string
}

// Create registers a new user.
//
// The email is normalized to lower-case and is required;
// the password must be at least MinPasswordLen long and is stored
// only as a bcrypt hash.
// A duplicate email fails with ErrExists.
func (s *Service) Create(email, password, name string) (recipes.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return recipes.User{}, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return recipes.User{}, err
	}

	u := recipes.User{Email: email, Name: name, Password: hash, Active: true}
	if err := s.db.Create(&u); err != nil {
		return recipes.User{}, err
	}

	return u, nil
}

// CreateSuperuser registers a new user carrying the staff and superuser flags.
func (s *Service) CreateSuperuser(email, password string) (recipes.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return recipes.User{}, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return recipes.User{}, err
	}

	u := recipes.User{Email: email, Password: hash, Active: true, Staff: true, Superuser: true}
	if err := s.db.Create(&u); err != nil {
		return recipes.User{}, err
	}

	return u, nil
}

// Authenticate returns the user matching email whose stored hash matches
// password.
//
// Every failure - unknown email, wrong password, missing fields - returns
// the same ErrNotValid so a caller cannot learn whether the email exists.
func (s *Service) Authenticate(email, password string) (recipes.User, error) {
	badCreds := fmt.Errorf("%w: unable to authenticate with provided credentials", recipes.ErrNotValid)

	email, err := normalizeEmail(email)
	if err != nil {
		return recipes.User{}, badCreds
	}

	var u recipes.User
	if err := s.db.Where("email = ?", email).First(&u); err != nil {
		// Burn a comparison anyway so the timing of a miss
		// matches that of a wrong password.
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return recipes.User{}, badCreds
	}

	if err := bcrypt.CompareHashAndPassword(u.Password, []byte(password)); err != nil {
		return recipes.User{}, badCreds
	}

	return u, nil
}

// ByID retrieves a user by its primary ID.
func (s *Service) ByID(id uint) (recipes.User, error) {
	var u recipes.User
	if err := s.db.Where("id = ?", id).First(&u); err != nil {
		return recipes.User{}, err
	}

	return u, nil
}

// Update mutates only the fields supplied on the ProfileUpdate,
// re-hashing the password when present.
// An empty ProfileUpdate is a no-op.
func (s *Service) Update(u *recipes.User, p ProfileUpdate) error {
	updates := postgres.Updates{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}

	if p.Password != nil {
		hash, err := hashPassword(*p.Password)
		if err != nil {
			return err
		}

		updates["password"] = hash
	}

	if len(updates) == 0 {
		return nil
	}

	err := s.db.Model(&recipes.User{}).Where("id = ?", u.ID).Update(updates)
	if err != nil {
		return err
	}

	fresh, err := s.ByID(u.ID)
	if err != nil {
		return err
	}

	*u = fresh
	return nil
}

// Paged lists all users a page at a time, ordered by ID,
// for administrative tooling.
func (s *Service) Paged(page, perPage int64) (postgres.PagedData, error) {
	return s.db.Model(&recipes.User{}).Order("id ASC").Paged(page, perPage)
}

// dummyHash keeps Authenticate's unknown-email path
// the same speed as its wrong-password path.
var dummyHash = mustHash("no-such-password")

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", recipes.ErrNotValid)
	}

	return email, nil
}

func hashPassword(password string) ([]byte, error) {
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", recipes.ErrNotValid, MinPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: failed hashing password: %s", recipes.ErrUnexpected, err)
	}

	return hash, nil
}

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}

	return hash
}
