package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"nineties-server/internal/model"
)

const (
	insertStoryQuery = `
        INSERT INTO stories (title, protagonists, content)
        VALUES ($1, $2, $3)
        RETURNING id, title, protagonists, content, created_at;
    `
	listStoriesQuery = `
        SELECT id, title, protagonists, content, created_at
        FROM stories
        ORDER BY created_at DESC, id DESC;
    `
	getStoryByIDQuery = `
        SELECT id, title, protagonists, content, created_at
        FROM stories
        WHERE id = $1;
    `
)

// storyRow — строка таблицы stories; протагонисты хранятся одной колонкой
type storyRow struct {
	ID           int       `db:"id"`
	Title        string    `db:"title"`
	Protagonists string    `db:"protagonists"`
	Content      string    `db:"content"`
	CreatedAt    time.Time `db:"created_at"`
}

// toModel разворачивает строку таблицы в доменную модель
func (r storyRow) toModel() model.Story {
	return model.Story{
		ID:           r.ID,
		Title:        r.Title,
		Protagonists: model.SplitProtagonists(r.Protagonists),
		Content:      r.Content,
		CreatedAt:    r.CreatedAt,
	}
}

// postgresStoryRepository реализует StoryRepository для PostgreSQL
type postgresStoryRepository struct {
	db *pgxpool.Pool
}

// NewPostgresStoryRepository создает новый экземпляр репозитория для PostgreSQL
func NewPostgresStoryRepository(db *pgxpool.Pool) StoryRepository {
	return &postgresStoryRepository{db: db}
}

// Insert сохраняет историю; id и created_at присваивает база.
// Возврат происходит только после фиксации записи.
func (r *postgresStoryRepository) Insert(ctx context.Context, title string, protagonists []string, content string) (*model.Story, error) {
	var row storyRow
	err := pgxscan.Get(ctx, r.db, &row, insertStoryQuery,
		title, model.JoinProtagonists(protagonists), content)
	if err != nil {
		log.Error().Err(err).Str("title", title).Msg("failed to insert story")
		return nil, fmt.Errorf("failed to insert story: %w", err)
	}

	story := row.toModel()
	return &story, nil
}

// ListAll возвращает все истории, новые первыми
func (r *postgresStoryRepository) ListAll(ctx context.Context) ([]model.Story, error) {
	var rows []storyRow
	if err := pgxscan.Select(ctx, r.db, &rows, listStoriesQuery); err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	stories := make([]model.Story, 0, len(rows))
	for _, row := range rows {
		stories = append(stories, row.toModel())
	}
	return stories, nil
}

// GetByID возвращает историю по id
func (r *postgresStoryRepository) GetByID(ctx context.Context, id int) (*model.Story, error) {
	var row storyRow
	err := pgxscan.Get(ctx, r.db, &row, getStoryByIDQuery, id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, model.ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to get story %d: %w", id, err)
	}

	story := row.toModel()
	return &story, nil
}
