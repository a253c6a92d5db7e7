package model

import (
	"errors"
	"fmt"
	"strings"
)

// Application-wide standard errors
var (
	// Ошибки входных данных (маппятся в 400)
	ErrInvalidTitle = errors.New("title length must be between 5 and 100 characters")

	// Ошибка генерации текста (upstream, маппится в 400)
	ErrGenerationFailed = errors.New("story generation failed")

	// Ошибки ресурсов (маппятся в 404)
	ErrStoryNotFound = errors.New("story not found")

	// Прочее (маппится в 500)
	ErrInternalServer = errors.New("internal server error")
)

// InvalidProtagonistError возвращается валидатором при первом имени,
// которого нет в списке допустимых персонажей.
type InvalidProtagonistError struct {
	Name    string
	Allowed []string
}

func (e *InvalidProtagonistError) Error() string {
	return fmt.Sprintf("El personaje '%s' no es válido. Los personajes válidos son: %s",
		e.Name, strings.Join(e.Allowed, ", "))
}
