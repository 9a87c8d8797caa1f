package database

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"yatube/internal/models"
)

var (
	ErrSessionNotFound = errors.New("сессия не найдена")
	ErrSessionExpired  = errors.New("сессия истекла")
	ErrTokenGeneration = errors.New("ошибка генерации токена")
	ErrSessionCreation = errors.New("ошибка создания сессии")
	ErrSessionDeletion = errors.New("ошибка удаления сессии")
)

// DefaultSessionDuration используется, если срок жизни не задан в настройках
const DefaultSessionDuration = 24 * time.Hour

// TokenLength - байт случайности в токене, в cookie он вдвое длиннее (hex)
const TokenLength = 32

type SessionService struct {
	db       *Database
	duration time.Duration
	now      func() time.Time
}

func NewSessionService(db *Database, duration time.Duration) *SessionService {
	if duration <= 0 {
		duration = DefaultSessionDuration
	}
	return &SessionService{
		db:       db,
		duration: duration,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (ss *SessionService) Duration() time.Duration {
	return ss.duration
}

// CreateSession выдает пользователю новый токен. Вход с другого
// устройства завершает прежнюю сессию.
func (ss *SessionService) CreateSession(ctx context.Context, userID int) (*models.Session, error) {
	if err := ss.DeleteUserSessions(ctx, userID); err != nil {
		return nil, err
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	created := ss.now()
	session := &models.Session{
		Token:   token,
		UserID:  userID,
		Expires: created.Add(ss.duration),
		Created: created,
	}

	_, err = ss.db.DBConn.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires, created) VALUES (?, ?, ?, ?)`,
		session.Token, session.UserID, session.Expires, session.Created)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCreation, err)
	}

	return session, nil
}

// GetSession возвращает действующую сессию. Просроченная удаляется.
func (ss *SessionService) GetSession(ctx context.Context, token string) (*models.Session, error) {
	session := models.Session{Token: token}

	err := ss.db.DBConn.QueryRowContext(ctx,
		`SELECT user_id, expires, created FROM sessions WHERE token = ?`, token).
		Scan(&session.UserID, &session.Expires, &session.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if err := ss.dropExpired(ctx, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// GetUserBySession находит владельца действующей сессии одним запросом
func (ss *SessionService) GetUserBySession(ctx context.Context, token string) (*models.User, error) {
	var (
		user    models.User
		session = models.Session{Token: token}
	)

	query := `SELECT u.id, u.username, u.email, u.password, u.created, s.expires
			  FROM sessions s
			  JOIN users u ON s.user_id = u.id
			  WHERE s.token = ?`

	err := ss.db.DBConn.QueryRowContext(ctx, query, token).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.Created,
		&session.Expires,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if err := ss.dropExpired(ctx, &session); err != nil {
		return nil, err
	}

	return &user, nil
}

func (ss *SessionService) dropExpired(ctx context.Context, session *models.Session) error {
	if !session.Expired(ss.now()) {
		return nil
	}
	if err := ss.DeleteSession(ctx, session.Token); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return ErrSessionExpired
}

// DeleteSession удаляет сессию. Неизвестный токен - ErrSessionNotFound.
func (ss *SessionService) DeleteSession(ctx context.Context, token string) error {
	removed, err := ss.deleteWhere(ctx, `token = ?`, token)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (ss *SessionService) DeleteUserSessions(ctx context.Context, userID int) error {
	_, err := ss.deleteWhere(ctx, `user_id = ?`, userID)
	return err
}

// CleanupExpiredSessions удаляет все просроченные сессии и возвращает их число
func (ss *SessionService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return ss.deleteWhere(ctx, `expires <= ?`, ss.now())
}

func (ss *SessionService) deleteWhere(ctx context.Context, cond string, arg any) (int64, error) {
	result, err := ss.db.DBConn.ExecContext(ctx, `DELETE FROM sessions WHERE `+cond, arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSessionDeletion, err)
	}
	return result.RowsAffected()
}

func generateToken() (string, error) {
	buf := make([]byte, TokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
