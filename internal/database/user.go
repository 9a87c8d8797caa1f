package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"yatube/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameExists     = errors.New("пользователь с таким именем уже существует")
	ErrEmailExists        = errors.New("пользователь с таким email уже существует")
	ErrEmptyEmail         = errors.New("email не может быть пустым")
	ErrLongEmail          = errors.New("email не должен превышать 255 символов")
	ErrInvalidEmail       = errors.New("введите правильный адрес электронной почты")
	ErrInvalidUsername    = errors.New("имя пользователя может содержать только буквы, цифры, подчеркивание и дефис")
	ErrShortUsername      = errors.New("имя пользователя должно содержать минимум 3 символа")
	ErrLongUsername       = errors.New("имя пользователя не должно превышать 50 символов")
	ErrShortPassword      = errors.New("пароль должен содержать минимум 6 символов")
	ErrLongPassword       = errors.New("пароль не должен превышать 72 символа")
	ErrPasswordHashFailed = errors.New("ошибка хеширования пароля")
	ErrUserCreateFailed   = errors.New("ошибка создания пользователя")
	ErrUserNotFound       = errors.New("пользователь не найден")
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
)

var usernameRE = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type UserService struct {
	db   *Database
	cost int
}

// NewUserService создает сервис пользователей. cost - стоимость bcrypt,
// значение вне допустимого диапазона заменяется на bcrypt.DefaultCost.
func NewUserService(db *Database, cost int) *UserService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &UserService{db: db, cost: cost}
}

func (us *UserService) CreateUser(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := us.validateUserData(username, email, password); err != nil {
		return nil, err
	}

	if err := us.checkUserUniqueness(ctx, username, email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), us.cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordHashFailed, err)
	}

	query := `INSERT INTO users (username, email, password, created)
			  VALUES (?, ?, ?, ?) RETURNING id`

	user := models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Created:  time.Now().UTC(),
	}

	err = us.db.DBConn.QueryRowContext(ctx, query, username, email, hashedPassword, user.Created).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserCreateFailed, err)
	}

	return &user, nil
}

// VerifyUser проверяет пару имя/пароль. Для неизвестного имени и неверного
// пароля возвращается одна и та же ошибка.
func (us *UserService) VerifyUser(ctx context.Context, username, password string) (*models.User, error) {
	user, err := us.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser получает пользователя по ID
func (us *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT id, username, email, password, created FROM users WHERE id = ?`
	return us.scanUser(us.db.DBConn.QueryRowContext(ctx, query, id))
}

// GetUserByUsername получает пользователя по имени
func (us *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, email, password, created FROM users WHERE username = ?`
	return us.scanUser(us.db.DBConn.QueryRowContext(ctx, query, username))
}

func (us *UserService) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// checkUserUniqueness одним запросом ищет занятые имя и email.
// Имя проверяется первым.
func (us *UserService) checkUserUniqueness(ctx context.Context, username, email string) error {
	var nameTaken, emailTaken bool

	query := `SELECT COALESCE(MAX(username = ?), 0), COALESCE(MAX(email = ?), 0)
			  FROM users WHERE username = ? OR email = ?`
	err := us.db.DBConn.QueryRowContext(ctx, query, username, email, username, email).Scan(&nameTaken, &emailTaken)
	if err != nil {
		return fmt.Errorf("ошибка проверки уникальности пользователя: %w", err)
	}

	switch {
	case nameTaken:
		return ErrUsernameExists
	case emailTaken:
		return ErrEmailExists
	}
	return nil
}

func (us *UserService) validateUserData(username, email, password string) error {
	for _, err := range []error{
		ValidateUsername(username),
		ValidateEmail(email),
		ValidatePassword(password),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// ValidateEmail валидирует email адрес
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if len(email) == 0 {
		return ErrEmptyEmail
	}
	if len(email) > 255 {
		return ErrLongEmail
	}
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateUsername валидирует имя пользователя
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return ErrShortUsername
	}
	if len(username) > 50 {
		return ErrLongUsername
	}
	if !usernameRE.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// ValidatePassword проверяет длину пароля. bcrypt не принимает больше 72 байт.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrShortPassword
	}
	if len(password) > 72 {
		return ErrLongPassword
	}
	return nil
}
