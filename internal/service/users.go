package service

import (
	"context"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fitsocial/backend/internal/models"
)

// ErrInvalidCredentials is returned by Authenticate for any login failure.
var ErrInvalidCredentials = errors.New("invalid credentials")

const minPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {},
	"football": {}, "baseball": {}, "welcome1": {}, "abc12345": {}, "trustno1": {},
	"letmein1": {}, "princess": {}, "dragon123": {}, "superman": {}, "11111111": {},
	"00000000": {}, "passw0rd": {}, "admin123": {}, "contraseña": {}, "gimnasio": {},
}

// RegisterParams carries the registration form.
type RegisterParams struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	Password2 string
}

// ProfileUpdate holds the editable profile fields; nil leaves a field untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}

// Users manages accounts.
type Users struct {
	db         *gorm.DB
	logger     *zap.SugaredLogger
	bcryptCost int
}

func NewUsers(db *gorm.DB, l *zap.SugaredLogger) *Users {
	return &Users{
		db:         db,
		logger:     l,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost returns a copy of s hashing with cost. Tests use bcrypt.MinCost.
func (s *Users) WithBcryptCost(cost int) *Users {
	c := *s
	c.bcryptCost = cost
	return &c
}

func (s *Users) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	p.Email = normalizeEmail(p.Email)
	p.Username = strings.TrimSpace(p.Username)

	if p.Password != p.Password2 {
		return nil, invalid("passwords do not match")
	}
	if problems := passwordProblems(p); len(problems) > 0 {
		return nil, invalid("%s", strings.Join(problems, " "))
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", p.Email, p.Username).
		Count(&existing).Error; err != nil {
		return nil, errors.Wrap(err, "check existing user")
	}
	if existing > 0 {
		return nil, conflict("username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "generate password hash")
	}

	user := models.User{
		Email:        p.Email,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return nil, conflict("username or email already exists")
		}
		return nil, errors.Wrap(err, "create user")
	}

	s.logger.Infow("user registered", "user_id", user.ID)
	return &user, nil
}

// Authenticate checks an email/password pair and returns the matching active user.
func (s *Users) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "find user")
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// List returns one page of active users, optionally filtered by a username or email fragment.
func (s *Users) List(ctx context.Context, query string, page, limit int) ([]models.User, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true)
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count users")
	}

	users := make([]models.User, 0)
	if err := q.Order("id").Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list users")
	}
	return users, total, nil
}

func (s *Users) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("user not found")
		}
		return nil, errors.Wrap(err, "get user")
	}
	return &user, nil
}

// UpdateProfile changes the caller's names. Email and username are read-only.
func (s *Users) UpdateProfile(ctx context.Context, callerID uint, upd ProfileUpdate) (*models.User, error) {
	user, err := s.Get(ctx, callerID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if upd.FirstName != nil {
		changes["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		changes["last_name"] = *upd.LastName
	}
	if len(changes) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(changes).Error; err != nil {
		return nil, errors.Wrap(err, "update profile")
	}
	return s.Get(ctx, callerID)
}

// Delete removes the caller's account. Routines, posts, likes and friendships go with it.
func (s *Users) Delete(ctx context.Context, callerID uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, callerID)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete user")
	}
	if res.RowsAffected == 0 {
		return notFound("user not found")
	}
	s.logger.Infow("user deleted", "user_id", callerID)
	return nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}

func passwordProblems(p RegisterParams) []string {
	var problems []string
	pw := p.Password

	if len([]rune(pw)) < minPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if pw != "" && strings.IndexFunc(pw, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		problems = append(problems, "This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(pw)]; ok {
		problems = append(problems, "This password is too common.")
	}

	localPart := p.Email
	if at := strings.LastIndex(localPart, "@"); at >= 0 {
		localPart = localPart[:at]
	}
	lower := strings.ToLower(pw)
	for _, attr := range []string{p.Username, localPart, p.FirstName, p.LastName} {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if len(attr) < 3 || len(lower) < 3 {
			continue
		}
		if strings.Contains(lower, attr) || strings.Contains(attr, lower) {
			problems = append(problems, "The password is too similar to your personal information.")
			break
		}
	}
	return problems
}
