package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const TemplateVerification = "verification"

const verificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h2>¡Hola {{.Username}}!</h2>
  <p>Gracias por registrarte en FishLog. Confirma tu email para empezar a registrar tus capturas:</p>
  <p><a href="{{.VerificationURL}}">Confirmar email</a></p>
  <p>El enlace caduca en 24 horas.</p>
</body>
</html>`

// TemplateManager реализует TemplateRenderer для управления шаблонами email
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	// встроенный шаблон всегда парсится
	_ = tm.AddTemplate(TemplateVerification, verificationTemplate)
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}
