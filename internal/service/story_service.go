package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"nineties-server/internal/model"
	"nineties-server/internal/repository"
	"nineties-server/internal/validation"
	"nineties-server/pkg/workerpool"
)

// StoryGenerator строит промпт и получает текст истории от внешнего бэкенда
type StoryGenerator interface {
	Generate(ctx context.Context, title string, protagonists []string) (string, error)
}

// PooledStoryGenerator выполняет вызов AI в воркер-пуле, чтобы сетевые
// задержки провайдера не блокировали обработку других запросов.
type PooledStoryGenerator struct {
	ai   AIClient
	pool *workerpool.Pool
}

// NewStoryGenerator создает генератор поверх AI клиента и пула
func NewStoryGenerator(ai AIClient, pool *workerpool.Pool) *PooledStoryGenerator {
	return &PooledStoryGenerator{ai: ai, pool: pool}
}

// Generate выполняет ровно один вызов бэкенда на запрос. Результаты не
// кэшируются: одинаковый вход дает новый вызов.
func (g *PooledStoryGenerator) Generate(ctx context.Context, title string, protagonists []string) (string, error) {
	prompt := BuildStoryPrompt(title, protagonists)

	value, err := g.pool.Submit(ctx, func(taskCtx context.Context) (interface{}, error) {
		return g.ai.GenerateStory(taskCtx, prompt)
	})
	if err != nil {
		if errors.Is(err, model.ErrGenerationFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	text, ok := value.(string)
	if !ok || text == "" {
		return "", fmt.Errorf("%w: получен пустой ответ", model.ErrGenerationFailed)
	}
	return text, nil
}

// StoryService реализует сценарии создания и чтения историй
type StoryService struct {
	validator *validation.Validator
	generator StoryGenerator
	repo      repository.StoryRepository
}

// NewStoryService создает новый экземпляр сервиса
func NewStoryService(validator *validation.Validator, generator StoryGenerator, repo repository.StoryRepository) *StoryService {
	return &StoryService{
		validator: validator,
		generator: generator,
		repo:      repo,
	}
}

// CreateStory проверяет вход, генерирует текст и сохраняет историю.
// Каждый этап либо полностью успешен, либо прерывает запрос: при ошибке
// генерации строка в БД не появляется.
func (s *StoryService) CreateStory(ctx context.Context, title string, protagonists []string) (*model.Story, error) {
	if err := s.validator.ValidateRequest(title, protagonists); err != nil {
		return nil, err
	}

	content, err := s.generator.Generate(ctx, title, protagonists)
	if err != nil {
		return nil, err
	}

	story, err := s.repo.Insert(ctx, title, protagonists, content)
	if err != nil {
		return nil, err
	}

	storiesCreatedTotal.Inc()
	log.Info().Int("story_id", story.ID).Str("title", story.Title).Msg("story created")
	return story, nil
}

// ListStories возвращает все сохраненные истории
func (s *StoryService) ListStories(ctx context.Context) ([]model.Story, error) {
	return s.repo.ListAll(ctx)
}

// GetStory возвращает историю по id или model.ErrStoryNotFound
func (s *StoryService) GetStory(ctx context.Context, id int) (*model.Story, error) {
	return s.repo.GetByID(ctx, id)
}
