package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/videotube/internal/models"
)

// ErrChannelNotFound возвращается, если канала с таким username нет.
var ErrChannelNotFound = errors.New("channel not found")

// GetChannelProfile собирает профиль канала: пользователя с данным username,
// число его подписчиков, число каналов, на которые он подписан, и признак
// подписки зрителя viewerID. Пустой viewerID означает анонимного зрителя.
func (s *Storage) GetChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	const op = "storage.GetChannelProfile"

	query := `WITH channel AS (
			      SELECT id, username, full_name, email, avatar, cover_image
			      FROM users
			      WHERE username = $1
			  ),
			  subscribers AS (
			      SELECT s.subscriber_id
			      FROM subscriptions s
			      JOIN channel c ON s.channel_id = c.id
			  ),
			  subscribed_to AS (
			      SELECT s.channel_id
			      FROM subscriptions s
			      JOIN channel c ON s.subscriber_id = c.id
			  )
			  SELECT c.id, c.username, c.full_name, c.email, c.avatar, c.cover_image,
			      (SELECT COUNT(*) FROM subscribers),
			      (SELECT COUNT(*) FROM subscribed_to),
			      COALESCE($2::uuid IN (SELECT subscriber_id FROM subscribers), FALSE)
			  FROM channel c`

	viewer := sql.NullString{String: viewerID, Valid: viewerID != ""}

	var p models.ChannelProfile
	err := s.DB.QueryRowContext(ctx, query, username, viewer).Scan(
		&p.ID, &p.Username, &p.FullName, &p.Email, &p.Avatar, &p.CoverImage,
		&p.SubscribersCount, &p.ChannelsSubscribedToCount, &p.IsSubscribed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrChannelNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}
