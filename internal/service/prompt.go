package service

import (
	"fmt"
	"strings"
)

// storyPromptTemplate — фиксированный шаблон промпта для генерации истории.
// Плейсхолдеры: имена протагонистов, заголовок.
const storyPromptTemplate = `
Eres un escritor de historias de comedia. Tu tarea es crear una aventura **muy corta y graciosa** (máximo 2-3 párrafos)
ambientada en los años 90.

Los protagonistas son jóvenes de la época actual, totalmente dependientes de la tecnología moderna,
que han sido transportados a un día típico de los años 90. Sus nombres son: %s.
El título de su aventura es: "%s".

La historia debe narrar sus hilarantes y absurdos intentos de **sobrevivir a situaciones cotidianas de los 90**,
chocando con la falta de WiFi, la obligación de usar un teléfono fijo de disco para quedar,
la ausencia de redes sociales para documentar todo, los VHS, los CDs que se rayan,
la necesidad de usar un mapa de papel, y la comunicación sin WhatsApp.

Integra de 1 a 2 **"Consejos de Supervivencia de los 90"** de forma cómica y directa,
como si fueran advertencias útiles para alguien de hoy en día.
Por ejemplo:
- "Consejo de Supervivencia #1: Si el teléfono tiene cable, ¡estás atrapado! No intentes buscar la 'nube'."
- "Consejo de Supervivencia #2: Para quedar con alguien, tienes que llamar a un teléfono fijo y esperar a que CONTESTE. No hay ubicación en tiempo real."
- "Consejo de Supervivencia #3: El 'buffering' de los 90 era un casete de VHS que no rebobinaste."

Que el tono sea muy ligero, divertido, y resalte su confusión, frustración y momentos absurdos mientras intentan adaptarse a este "mundo analógico".
Finaliza la historia de forma abrupta y cómica, o con una moraleja humorística.
`

// BuildStoryPrompt строит детерминированный промпт: заголовок и имена
// подставляются в шаблон дословно, в порядке запроса.
func BuildStoryPrompt(title string, protagonists []string) string {
	return fmt.Sprintf(storyPromptTemplate, strings.Join(protagonists, ", "), title)
}
