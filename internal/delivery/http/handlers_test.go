package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	delivery "nineties-server/internal/delivery/http"
	"nineties-server/internal/mocks"
	"nineties-server/internal/model"
	"nineties-server/internal/service"
	"nineties-server/internal/validation"
)

const testContent = "Rebobina la cinta antes de devolverla..."

func newTestRouter(t *testing.T) (*gin.Engine, *mocks.MockStoryGenerator, *mocks.MockStoryRepository) {
	gin.SetMode(gin.TestMode)

	generator := mocks.NewMockStoryGenerator(t)
	repo := mocks.NewMockStoryRepository(t)
	svc := service.NewStoryService(validation.New(validation.AllowedProtagonists()), generator, repo)

	router := gin.New()
	delivery.New(svc).RegisterRoutes(router)
	return router, generator, repo
}

func postStory(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/generate_story/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateStory(t *testing.T) {
	t.Run("returns 201 with the persisted story", func(t *testing.T) {
		router, generator, repo := newTestRouter(t)

		title := "El Misterio del Video Club Vacío"
		protagonists := []string{"Alex", "Karla"}
		saved := &model.Story{
			ID:           1,
			Title:        title,
			Protagonists: protagonists,
			Content:      testContent,
			CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		}

		generator.On("Generate", mock.Anything, title, protagonists).Return(testContent, nil).Once()
		repo.On("Insert", mock.Anything, title, protagonists, testContent).Return(saved, nil).Once()

		w := postStory(router, `{"title": "El Misterio del Video Club Vacío", "protagonists": ["Alex", "Karla"]}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var got model.Story
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 1, got.ID)
		assert.Equal(t, title, got.Title)
		assert.Equal(t, protagonists, got.Protagonists)
		assert.Equal(t, testContent, got.Content)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("ids increase across successful creates", func(t *testing.T) {
		router, generator, repo := newTestRouter(t)

		generator.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(testContent, nil).Twice()
		for i := 1; i <= 2; i++ {
			saved := &model.Story{ID: i, Title: "Una aventura cualquiera", Protagonists: []string{"Alex"}, Content: testContent, CreatedAt: time.Now()}
			repo.On("Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(saved, nil).Once()
		}

		var previousID int
		for i := 0; i < 2; i++ {
			w := postStory(router, `{"title": "Una aventura cualquiera", "protagonists": ["Alex"]}`)
			require.Equal(t, http.StatusCreated, w.Code)

			var got model.Story
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Greater(t, got.ID, previousID)
			previousID = got.ID
		}
	})

	t.Run("unknown protagonist yields 400 and no insert", func(t *testing.T) {
		router, generator, repo := newTestRouter(t)

		w := postStory(router, `{"title": "Una aventura cualquiera", "protagonists": ["Alex", "Pedro"]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "'Pedro'")
		assert.Contains(t, w.Body.String(), "Rafa, Alex, Hugo")

		generator.AssertNotCalled(t, "Generate")
		repo.AssertNotCalled(t, "Insert")
	})

	t.Run("title length bounds yield 400", func(t *testing.T) {
		router, _, repo := newTestRouter(t)

		for _, title := range []string{"abcd", strings.Repeat("a", 101)} {
			body := fmt.Sprintf(`{"title": %q, "protagonists": ["Alex"]}`, title)
			w := postStory(router, body)
			assert.Equal(t, http.StatusBadRequest, w.Code, "title length %d", len(title))
		}

		repo.AssertNotCalled(t, "Insert")
	})

	t.Run("generation failure yields 400, not 500, and no insert", func(t *testing.T) {
		router, generator, repo := newTestRouter(t)

		generator.On("Generate", mock.Anything, mock.Anything, mock.Anything).
			Return("", fmt.Errorf("%w: upstream unavailable", model.ErrGenerationFailed)).Once()

		w := postStory(router, `{"title": "Una aventura cualquiera", "protagonists": ["Alex"]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		// Детали upstream не утекают клиенту
		assert.NotContains(t, w.Body.String(), "upstream unavailable")

		repo.AssertNotCalled(t, "Insert")
	})

	t.Run("unexpected failure yields generic 500", func(t *testing.T) {
		router, generator, repo := newTestRouter(t)

		generator.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(testContent, nil).Once()
		repo.On("Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("pq: out of disk")).Once()

		w := postStory(router, `{"title": "Una aventura cualquiera", "protagonists": ["Alex"]}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "out of disk")
	})
}

func TestListStories(t *testing.T) {
	t.Run("empty store yields empty list, not an error", func(t *testing.T) {
		router, _, repo := newTestRouter(t)

		repo.On("ListAll", mock.Anything).Return([]model.Story{}, nil).Once()

		w := getPath(router, "/stories/")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"stories": []}`, w.Body.String())
	})

	t.Run("repeated reads return the same rows", func(t *testing.T) {
		router, _, repo := newTestRouter(t)

		stored := []model.Story{
			{ID: 2, Title: "Segunda historia", Protagonists: []string{"Karla"}, Content: testContent, CreatedAt: time.Now()},
			{ID: 1, Title: "Primera historia", Protagonists: []string{"Alex"}, Content: testContent, CreatedAt: time.Now().Add(-time.Hour)},
		}
		repo.On("ListAll", mock.Anything).Return(stored, nil).Twice()

		first := getPath(router, "/stories/")
		second := getPath(router, "/stories/")
		require.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())
	})
}

func TestGetStory(t *testing.T) {
	t.Run("returns the story", func(t *testing.T) {
		router, _, repo := newTestRouter(t)

		saved := &model.Story{ID: 7, Title: "Una aventura cualquiera", Protagonists: []string{"Alex", "Karla"}, Content: testContent, CreatedAt: time.Now()}
		repo.On("GetByID", mock.Anything, 7).Return(saved, nil).Once()

		w := getPath(router, "/stories/7")
		require.Equal(t, http.StatusOK, w.Code)

		var got model.Story
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, saved.ID, got.ID)
		assert.Equal(t, saved.Protagonists, got.Protagonists)
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		router, _, repo := newTestRouter(t)

		repo.On("GetByID", mock.Anything, 99).Return(nil, model.ErrStoryNotFound).Once()

		w := getPath(router, "/stories/99")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Historia no encontrada")
	})

	t.Run("non-numeric id yields 400", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		w := getPath(router, "/stories/abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestIndex(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := getPath(router, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Once Upon a -90s-")
}
