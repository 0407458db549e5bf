package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/videotube/internal/models"
)

// GetWatchHistory возвращает видео из истории просмотров пользователя в порядке
// их следования в истории. К каждому видео присоединяется публичная часть
// владельца; если владелец удалён, Owner остаётся nil. Ссылки на удалённые
// видео пропускаются.
func (s *Storage) GetWatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error) {
	const op = "storage.GetWatchHistory"

	query := `SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration,
			      v.views, v.is_published, v.created_at, v.updated_at,
			      o.id, o.full_name, o.username, o.avatar
			  FROM users u
			  CROSS JOIN LATERAL unnest(u.watch_history) WITH ORDINALITY AS wh(video_id, pos)
			  JOIN videos v ON v.id = wh.video_id
			  LEFT JOIN users o ON o.id = v.owner_id
			  WHERE u.id = $1
			  ORDER BY wh.pos`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		if isInvalidID(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.WatchedVideo{}
	for rows.Next() {
		var (
			v                                         models.WatchedVideo
			ownerID, ownerName, ownerLogin, ownerIcon sql.NullString
		)
		if err = rows.Scan(&v.ID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description, &v.Duration,
			&v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
			&ownerID, &ownerName, &ownerLogin, &ownerIcon,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if ownerID.Valid {
			v.Owner = &models.VideoOwner{
				ID:       ownerID.String,
				FullName: ownerName.String,
				Username: ownerLogin.String,
				Avatar:   ownerIcon.String,
			}
		}
		result = append(result, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
