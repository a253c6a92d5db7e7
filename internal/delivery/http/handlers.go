package http

import (
	_ "embed"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"nineties-server/internal/model"
	"nineties-server/internal/service"
)

//go:embed index.html
var indexHTML []byte

// Handler представляет HTTP обработчик сервиса историй
type Handler struct {
	storyService *service.StoryService
}

// New создает новый экземпляр обработчика
func New(storyService *service.StoryService) *Handler {
	return &Handler{storyService: storyService}
}

// RegisterRoutes регистрирует маршруты API
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Index)
	router.POST("/generate_story/", h.CreateStory)
	router.GET("/stories/", h.ListStories)
	router.GET("/stories/:id", h.GetStory)
	router.GET("/health", h.Health)
}

// Index отдает статическую страницу с описанием API
func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// Health — эндпоинт проверки живости
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateStory генерирует новую историю и сохраняет ее.
// Валидация → генерация → вставка; ошибка любого этапа прерывает запрос.
func (h *Handler) CreateStory(c *gin.Context) {
	var req model.StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Границы длины заголовка и размера списка ловятся binding тегами
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "El título debe tener entre 5 y 100 caracteres y la lista debe contener de 1 a 11 protagonistas.",
		})
		return
	}

	story, err := h.storyService.CreateStory(c.Request.Context(), req.Title, req.Protagonists)
	if err != nil {
		h.respondCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, story)
}

// respondCreateError маппит ошибки создания истории в HTTP статусы
func (h *Handler) respondCreateError(c *gin.Context, err error) {
	var protagonistErr *model.InvalidProtagonistError
	switch {
	case errors.As(err, &protagonistErr):
		c.JSON(http.StatusBadRequest, gin.H{"detail": protagonistErr.Error()})
	case errors.Is(err, model.ErrInvalidTitle):
		c.JSON(http.StatusBadRequest, gin.H{"detail": model.ErrInvalidTitle.Error()})
	case errors.Is(err, model.ErrGenerationFailed):
		// Детали upstream ошибки остаются в логах, клиенту — общее описание
		log.Error().Err(err).Msg("story generation failed")
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Error al generar la historia."})
	default:
		log.Error().Err(err).Msg("unexpected error while creating story")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor al generar la historia."})
	}
}

// ListStories возвращает все сохраненные истории
func (h *Handler) ListStories(c *gin.Context) {
	stories, err := h.storyService.ListStories(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list stories")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor."})
		return
	}
	if stories == nil {
		stories = []model.Story{}
	}

	c.JSON(http.StatusOK, model.StoriesListResponse{Stories: stories})
}

// GetStory возвращает одну историю по id
func (h *Handler) GetStory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "El id debe ser un número entero."})
		return
	}

	story, err := h.storyService.GetStory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrStoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Historia no encontrada"})
			return
		}
		log.Error().Err(err).Int("story_id", id).Msg("failed to get story")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor."})
		return
	}

	c.JSON(http.StatusOK, story)
}
