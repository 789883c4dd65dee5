package services

import (
	"errors"
	"strings"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/app/repositories"
	"github.com/shashiranjanraj/campuseats/config"
	"github.com/shashiranjanraj/campuseats/pkg/auth"
	"gorm.io/gorm"
)

// AuthService implements registration, login and profile management.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	UserType    string `json:"user_type" validate:"nullable,in=student,staff"`
	HostelType  string `json:"hostel_type" validate:"nullable,max=50"`
	HostelBlock string `json:"hostel_block" validate:"nullable,max=50"`
	RoomNumber  string `json:"room_number" validate:"nullable,max=50"`
}

// Register creates a new account. Email must carry the institutional
// domain and be globally unique; the password is stored as a bcrypt hash.
func (s *AuthService) Register(input RegisterInput) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if !strings.HasSuffix(email, config.AllowedEmailDomain()) {
		return models.User{}, ErrEmailDomain
	}

	taken, err := s.users.EmailExists(email)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	userType := input.UserType
	if userType == "" {
		userType = "student"
	}

	user := models.User{
		Name:        strings.TrimSpace(input.Name),
		Email:       email,
		Password:    hash,
		Role:        "user",
		UserType:    userType,
		HostelType:  input.HostelType,
		HostelBlock: input.HostelBlock,
		RoomNumber:  input.RoomNumber,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login verifies credentials and returns the user. Unknown email and
// wrong password produce the same error so the response does not reveal
// which accounts exist.
func (s *AuthService) Login(email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Token issues a bearer JWT for API clients that cannot hold cookies.
func (s *AuthService) Token(user models.User) (string, error) {
	return auth.GenerateToken(user.ID, user.Role)
}

// ProfileInput carries editable profile fields.
type ProfileInput struct {
	Name        string `json:"name" validate:"nullable,min=2,max=255"`
	HostelType  string `json:"hostel_type" validate:"nullable,max=50"`
	HostelBlock string `json:"hostel_block" validate:"nullable,max=50"`
	RoomNumber  string `json:"room_number" validate:"nullable,max=50"`
}

// UpdateProfile applies profile edits to the user's row.
func (s *AuthService) UpdateProfile(userID uint, input ProfileInput) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}

	if input.Name != "" {
		user.Name = strings.TrimSpace(input.Name)
	}
	if input.HostelType != "" {
		user.HostelType = input.HostelType
	}
	if input.HostelBlock != "" {
		user.HostelBlock = input.HostelBlock
	}
	if input.RoomNumber != "" {
		user.RoomNumber = input.RoomNumber
	}

	if err := s.users.Update(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Lookup resolves a user ID to the fresh row; used by the auth middleware
// so role changes take effect on the very next request.
func (s *AuthService) Lookup(id uint) (models.User, bool) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return models.User{}, false
	}
	return user, true
}
