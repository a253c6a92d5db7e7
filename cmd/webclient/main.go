package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config содержит настройки веб-клиента
type Config struct {
	Port       string        `envconfig:"WEBCLIENT_PORT" default:"8501"`
	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8080"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"120s"`
}

// Протагонисты, доступные в форме (те же, что проверяет API)
var validProtagonists = []string{"Rafa", "Alex", "Hugo", "Cris", "Dani", "Pau", "Arturo", "Juan", "Karla", "Eric", "Alberto"}

// story — ответ API
type story struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Protagonists []string  `json:"protagonists"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

type storiesResponse struct {
	Stories []story `json:"stories"`
}

// pageData — данные для шаблона страницы
type pageData struct {
	Protagonists []string
	Created      *story
	Stories      []story
	Error        string
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Once Upon a -90s- Story Generator</title>
    <style>
        body { font-family: 'Arial', sans-serif; background-color: #f4f4f4; color: #333; margin: 0; padding: 20px; }
        .container { background-color: #fff; padding: 20px; border-radius: 8px; max-width: 800px; margin: 20px auto; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
        h1, h2 { color: #0056b3; }
        .error { color: #b30000; font-weight: bold; }
        .story { border-top: 1px solid #ddd; padding: 10px 0; }
        .meta { color: #777; font-size: 0.85em; }
        label.name { display: inline-block; margin-right: 12px; }
        input[type=text] { width: 100%; padding: 6px; margin: 8px 0; }
        button { background-color: #0056b3; color: #fff; padding: 8px 16px; border: none; border-radius: 4px; cursor: pointer; }
        pre.content { white-space: pre-wrap; font-family: inherit; }
    </style>
</head>
<body>
<div class="container">
    <h1>📚 Once Upon a -90s- Story Generator</h1>
    <p>¡Bienvenido al generador de historias de los 90! ¿Qué tal una aventura hilarante
       donde los jóvenes de hoy se enfrentan a la tecnología retro?</p>

    {{if .Error}}<p class="error">{{.Error}}</p>{{end}}

    <h2>✨ Generar una Nueva Historia de los 90</h2>
    <form method="POST" action="/generate">
        <label>Título de la Historia</label>
        <input type="text" name="title" placeholder="El Día que el WiFi Desapareció">
        <p>Selecciona los Protagonistas (entre 1 y 11):</p>
        {{range .Protagonists}}
        <label class="name"><input type="checkbox" name="protagonists" value="{{.}}"> {{.}}</label>
        {{end}}
        <p><button type="submit">Generar y Guardar Historia</button></p>
    </form>

    {{with .Created}}
    <h2>¡Historia generada y guardada con éxito!</h2>
    <div class="story">
        <h3>{{.Title}}</h3>
        <p><strong>Protagonistas:</strong> {{range $i, $p := .Protagonists}}{{if $i}}, {{end}}{{$p}}{{end}}</p>
        <pre class="content">{{.Content}}</pre>
        <p class="meta">ID: {{.ID}} | Creada el: {{.CreatedAt.Format "2006-01-02 15:04:05"}}</p>
    </div>
    {{end}}

    <h2>📖 Historias Guardadas</h2>
    {{if .Stories}}
        {{range .Stories}}
        <div class="story">
            <h3>{{.Title}}</h3>
            <p><strong>Protagonistas:</strong> {{range $i, $p := .Protagonists}}{{if $i}}, {{end}}{{$p}}{{end}}</p>
            <pre class="content">{{.Content}}</pre>
            <p class="meta">ID: {{.ID}} | Creada el: {{.CreatedAt.Format "2006-01-02 15:04:05"}}</p>
        </div>
        {{end}}
    {{else}}
        <p>Todavía no hay historias guardadas.</p>
    {{end}}
</div>
</body>
</html>`

// client — HTTP клиент API историй
type client struct {
	baseURL string
	http    *http.Client
}

// listStories загружает все истории и сортирует их по дате, новые первыми
func (c *client) listStories() ([]story, error) {
	resp, err := c.http.Get(c.baseURL + "/stories/")
	if err != nil {
		return nil, fmt.Errorf("no se pudo conectar con la API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("la API respondió %d", resp.StatusCode)
	}

	var parsed storiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("respuesta inválida de la API: %w", err)
	}

	sort.Slice(parsed.Stories, func(i, j int) bool {
		return parsed.Stories[i].CreatedAt.After(parsed.Stories[j].CreatedAt)
	})
	return parsed.Stories, nil
}

// createStory отправляет запрос на генерацию и возвращает созданную историю
func (c *client) createStory(title string, protagonists []string) (*story, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"title":        title,
		"protagonists": protagonists,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(c.baseURL+"/generate_story/", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("no se pudo conectar con la API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("error al generar la historia: %d - %s", resp.StatusCode, string(body))
	}

	var created story
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("respuesta inválida de la API: %w", err)
	}
	return &created, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to process env config")
	}

	tmpl := template.Must(template.New("page").Parse(pageTemplate))
	api := &client{
		baseURL: cfg.APIBaseURL,
		http:    &http.Client{Timeout: cfg.APITimeout},
	}

	render := func(w http.ResponseWriter, data pageData) {
		data.Protagonists = validProtagonists
		if err := tmpl.Execute(w, data); err != nil {
			log.Error().Err(err).Msg("failed to render page")
		}
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		var data pageData
		stories, err := api.listStories()
		if err != nil {
			data.Error = err.Error()
		}
		data.Stories = stories
		render(w, data)
	})

	mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			render(w, pageData{Error: "Formulario inválido."})
			return
		}

		var data pageData
		title := r.FormValue("title")
		protagonists := r.Form["protagonists"]

		switch {
		case title == "":
			data.Error = "Por favor, introduce un título para la historia."
		case len(protagonists) == 0:
			data.Error = "Por favor, selecciona al menos un protagonista."
		default:
			created, err := api.createStory(title, protagonists)
			if err != nil {
				data.Error = err.Error()
			} else {
				data.Created = created
			}
		}

		if stories, err := api.listStories(); err == nil {
			data.Stories = stories
		}
		render(w, data)
	})

	log.Info().Str("port", cfg.Port).Str("api", cfg.APIBaseURL).Msg("web client started")
	if err := http.ListenAndServe(":"+cfg.Port, mux); err != nil {
		log.Fatal().Err(err).Msg("web client server error")
	}
}
