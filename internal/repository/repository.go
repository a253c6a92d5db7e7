package repository

import (
	"context"

	"nineties-server/internal/model"
)

// StoryRepository определяет операции хранилища историй.
// Истории неизменяемы: операций обновления и удаления нет.
type StoryRepository interface {
	// Insert сохраняет историю и возвращает ее с присвоенными id и created_at
	Insert(ctx context.Context, title string, protagonists []string, content string) (*model.Story, error)
	// ListAll возвращает все сохраненные истории, новые первыми
	ListAll(ctx context.Context) ([]model.Story, error)
	// GetByID возвращает историю по id или model.ErrStoryNotFound
	GetByID(ctx context.Context, id int) (*model.Story, error)
}
