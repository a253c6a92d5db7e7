package model

import (
	"strings"
	"time"
)

// ProtagonistDelimiter — разделитель, с которым имена протагонистов
// хранятся в одной колонке таблицы stories.
const ProtagonistDelimiter = ", "

// Story представляет сохраненную историю о 90-х
type Story struct {
	ID           int       `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Protagonists []string  `json:"protagonists" db:"-"`
	Content      string    `json:"content" db:"content"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// StoryRequest — тело запроса POST /generate_story/.
// Границы длины заголовка проверяются на уровне binding (схемы запроса).
type StoryRequest struct {
	Title        string   `json:"title" binding:"required,min=5,max=100"`
	Protagonists []string `json:"protagonists" binding:"required,min=1,max=11"`
}

// StoriesListResponse оборачивает список историй для GET /stories/
type StoriesListResponse struct {
	Stories []Story `json:"stories"`
}

// JoinProtagonists склеивает имена протагонистов в строку для хранения в БД
func JoinProtagonists(protagonists []string) string {
	return strings.Join(protagonists, ProtagonistDelimiter)
}

// SplitProtagonists разбирает хранимую строку обратно в упорядоченный список.
// Пустая колонка дает пустой список, а не []string{""}.
func SplitProtagonists(stored string) []string {
	if stored == "" {
		return []string{}
	}
	return strings.Split(stored, ProtagonistDelimiter)
}
