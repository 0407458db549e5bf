package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/videotube/internal/models"
)

const userColumns = `id, username, email, full_name, avatar, cover_image, password_hash,
	refresh_token, array_to_string(watch_history, ','), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u            models.User
		refreshToken sql.NullString
		history      string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Avatar, &u.CoverImage,
		&u.PasswordHash, &refreshToken, &history, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.RefreshToken = refreshToken.String
	u.WatchHistory = []string{}
	if history != "" {
		u.WatchHistory = strings.Split(history, ",")
	}
	return &u, nil
}

// mapUserErr переводит ошибки драйвера в ошибки хранилища.
func mapUserErr(op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows), isInvalidID(err):
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, ErrUserExists)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// CreateUser сохраняет нового пользователя и возвращает созданную запись.
func (s *Storage) CreateUser(ctx context.Context, user models.NewUser) (*models.User, error) {
	const op = "storage.CreateUser"

	query := `INSERT INTO users (username, email, full_name, avatar, cover_image, password_hash)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FullName, user.Avatar, user.CoverImage, user.PasswordHash))
	if err != nil {
		return nil, mapUserErr(op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по id.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapUserErr(op, err)
	}
	return u, nil
}

// FindUserByUsernameOrEmail ищет пользователя, у которого совпадает username
// или email. Пустые значения в поиске не участвуют.
func (s *Storage) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	const op = "storage.FindUserByUsernameOrEmail"

	query := `SELECT ` + userColumns + ` FROM users
			  WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
			  ORDER BY created_at
			  LIMIT 1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username, email))
	if err != nil {
		return nil, mapUserErr(op, err)
	}
	return u, nil
}

// SetRefreshToken записывает текущий refresh токен пользователя.
// Пустая строка очищает токен.
func (s *Storage) SetRefreshToken(ctx context.Context, id, token string) error {
	const op = "storage.SetRefreshToken"

	query := `UPDATE users
			  SET refresh_token = $1, updated_at = now()
			  WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, sql.NullString{String: token, Valid: token != ""}, id)
	if err != nil {
		return mapUserErr(op, err)
	}
	return checkAffected(op, res)
}

// UpdatePassword сохраняет новый хэш пароля.
func (s *Storage) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const op = "storage.UpdatePassword"

	query := `UPDATE users
			  SET password_hash = $1, updated_at = now()
			  WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return mapUserErr(op, err)
	}
	return checkAffected(op, res)
}

// UpdateAccountDetails обновляет полное имя и email.
func (s *Storage) UpdateAccountDetails(ctx context.Context, id, fullName, email string) (*models.User, error) {
	const op = "storage.UpdateAccountDetails"

	query := `UPDATE users
			  SET full_name = $1, email = $2, updated_at = now()
			  WHERE id = $3
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, fullName, email, id))
	if err != nil {
		return nil, mapUserErr(op, err)
	}
	return u, nil
}

// UpdateAvatar сохраняет URL нового аватара.
func (s *Storage) UpdateAvatar(ctx context.Context, id, avatarURL string) (*models.User, error) {
	const op = "storage.UpdateAvatar"

	query := `UPDATE users
			  SET avatar = $1, updated_at = now()
			  WHERE id = $2
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, avatarURL, id))
	if err != nil {
		return nil, mapUserErr(op, err)
	}
	return u, nil
}

// UpdateCoverImage сохраняет URL новой обложки.
func (s *Storage) UpdateCoverImage(ctx context.Context, id, coverImageURL string) (*models.User, error) {
	const op = "storage.UpdateCoverImage"

	query := `UPDATE users
			  SET cover_image = $1, updated_at = now()
			  WHERE id = $2
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, coverImageURL, id))
	if err != nil {
		return nil, mapUserErr(op, err)
	}
	return u, nil
}

func checkAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}
