package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/vibewatch/internal/aligner"
	"github.com/RMahshie/vibewatch/internal/charts"
	"github.com/RMahshie/vibewatch/internal/dashboard"
	"github.com/RMahshie/vibewatch/pkg/models"
)

//go:embed templates/dashboard.html
var templates embed.FS

var funcs = template.FuncMap{
	"drawable": charts.Drawable,
	"num": func(v *float64) string {
		if v == nil {
			return "–"
		}
		return strconv.FormatFloat(*v, 'g', 6, 64)
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"keyLabel": func(k models.KeyKind) string {
		switch k {
		case models.KeyIndex:
			return "Index"
		case models.KeyTime:
			return "Time (s)"
		default:
			return "Frequency (Hz)"
		}
	},
}

type pageData struct {
	Align string
	Error bool
	State *models.DashboardState
}

// DashboardPage renders the dashboard as a server-side HTML page
type DashboardPage struct {
	dashboards dashboard.DashboardService
	tmpl       *template.Template
}

// NewDashboardPage creates the page handler
func NewDashboardPage(dashboards dashboard.DashboardService) *DashboardPage {
	return &DashboardPage{
		dashboards: dashboards,
		tmpl:       template.Must(template.New("dashboard.html").Funcs(funcs).ParseFS(templates, "templates/dashboard.html")),
	}
}

func (p *DashboardPage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	align := r.URL.Query().Get("align")
	mode, err := aligner.ParseMode(align)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := pageData{Align: string(mode)}
	state, err := p.dashboards.Build(r.Context(), dashboard.Options{Mode: mode})
	if err != nil {
		data.Error = true
		if state == nil {
			state = &models.DashboardState{Status: models.StatusError, Message: dashboard.FetchErrorMessage}
		}
	}
	data.State = state

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		log.Error().Err(err).Msg("Failed to render dashboard page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
