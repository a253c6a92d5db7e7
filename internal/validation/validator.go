package validation

import (
	"unicode/utf8"

	"nineties-server/internal/model"
)

// Границы длины заголовка истории
const (
	TitleMinLength = 5
	TitleMaxLength = 100
)

// AllowedProtagonists — фиксированный список допустимых персонажей.
// Значение одно на процесс и передается валидатору при создании,
// а не читается из скрытого глобального состояния.
func AllowedProtagonists() []string {
	return []string{"Rafa", "Alex", "Hugo", "Cris", "Dani", "Pau", "Arturo", "Juan", "Karla", "Eric", "Alberto"}
}

// Validator проверяет входные данные запроса на создание истории
type Validator struct {
	allowed []string
	lookup  map[string]struct{}
}

// New создает валидатор с указанным списком допустимых персонажей
func New(allowed []string) *Validator {
	lookup := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		lookup[name] = struct{}{}
	}
	return &Validator{allowed: allowed, lookup: lookup}
}

// Allowed возвращает список допустимых персонажей в исходном порядке
func (v *Validator) Allowed() []string {
	return v.allowed
}

// ValidateRequest проверяет заголовок и список протагонистов.
// Дубликаты имен допускаются, отклоняются только неизвестные имена.
func (v *Validator) ValidateRequest(title string, protagonists []string) error {
	if err := v.ValidateTitle(title); err != nil {
		return err
	}
	return v.ValidateProtagonists(protagonists)
}

// ValidateTitle проверяет длину заголовка в символах
func (v *Validator) ValidateTitle(title string) error {
	length := utf8.RuneCountInString(title)
	if length < TitleMinLength || length > TitleMaxLength {
		return model.ErrInvalidTitle
	}
	return nil
}

// ValidateProtagonists возвращает ошибку на первом неизвестном имени
func (v *Validator) ValidateProtagonists(protagonists []string) error {
	for _, name := range protagonists {
		if _, ok := v.lookup[name]; !ok {
			return &model.InvalidProtagonistError{Name: name, Allowed: v.allowed}
		}
	}
	return nil
}
