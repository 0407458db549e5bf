package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/videotube/internal/migrations"
	"github.com/magabrotheeeer/videotube/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, dsn)
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает пользователя с заданным username.
func (f *TestDataFactory) CreateUser(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := f.storage.CreateUser(context.Background(), models.NewUser{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Full " + username,
		Avatar:       "http://media.local/videotube/" + username,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}

// Subscribe подписывает subscriber на channel и возвращает созданную подписку.
func (f *TestDataFactory) Subscribe(t *testing.T, subscriberID, channelID string) *models.Subscription {
	t.Helper()
	sub := &models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	err := f.storage.DB.QueryRow(`INSERT INTO subscriptions (subscriber_id, channel_id) VALUES ($1, $2)
		RETURNING id, created_at`, subscriberID, channelID).Scan(&sub.ID, &sub.CreatedAt)
	require.NoError(t, err)
	return sub
}

// CreateVideo создает видео и возвращает его id. Для пустого ownerID видео создается без владельца.
func (f *TestDataFactory) CreateVideo(t *testing.T, ownerID, title string) string {
	t.Helper()
	var owner any
	if ownerID != "" {
		owner = ownerID
	}
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO videos (owner_id, video_file, thumbnail, title, duration)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		owner, "http://media.local/"+title+".mp4", "http://media.local/"+title+".png", title, 42.5).Scan(&id)
	require.NoError(t, err)
	return id
}

// Watch добавляет видео в конец истории просмотров пользователя.
func (f *TestDataFactory) Watch(t *testing.T, userID string, videoIDs ...string) {
	t.Helper()
	for _, videoID := range videoIDs {
		_, err := f.storage.DB.Exec(`UPDATE users SET watch_history = array_append(watch_history, $1::uuid) WHERE id = $2`,
			videoID, userID)
		require.NoError(t, err)
	}
}
