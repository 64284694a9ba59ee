package keys

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	indexTemplate   = "index.html"
	successTemplate = "key_success.html"
	failureTemplate = "key_failure.html"
)

// Failure page messages
const (
	msgInvalidCredentials = "invalid credentials"
	msgServerError        = "server error"
)

// IndexPage is the data of the landing page form
type IndexPage struct {
	Endpoint string
}

// KeySuccessPage shows a freshly issued key
type KeySuccessPage struct {
	Key string
}

// KeyFailurePage explains why no key was issued
type KeyFailurePage struct {
	Message string
}

var _ echo.Renderer = (*TemplateRenderer)(nil)

// TemplateRenderer renders the embedded HTML pages through echo.Context.Render
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the embedded templates. It panics on a parse
// error since the templates ship inside the binary
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{
		templates: template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
}

// Render executes the named page template into w
func (r *TemplateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
