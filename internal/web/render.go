package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"quantumbetlab/web/internal/models"
	"quantumbetlab/web/internal/picks"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageMatches = "matches.html"
	pagePicks   = "picks.html"
	pagePredict = "predict.html"
)

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"sportName": func(s models.Sport) string {
		return s.DisplayName()
	},
	"percent": picks.Percent,
	"pct": func(fraction float64) string {
		return fmt.Sprintf("%.1f", picks.Percent(fraction))
	},
	"signed": func(v float64) string {
		return fmt.Sprintf("%+.1f", v)
	},
}

// renderer holds one template set per page, each sharing the layout
type renderer struct {
	pages    map[string]*template.Template
	fragment *template.Template
}

func newRenderer() (*renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	r := &renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageMatches, pagePicks, pagePredict} {
		base, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout: %w", err)
		}
		page, err := base.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		r.pages[name] = page
	}

	r.fragment, err = template.New("fragment.html").Funcs(funcs).ParseFS(templateFS, "templates/fragment.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}

	return r, nil
}

// page renders a full HTML page. Rendering goes through a buffer so a
// template error still produces a clean 500.
func (r *renderer) page(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := r.pages[name].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.Error().Err(err).Str("page", name).Msg("Failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// fragmentHTML renders the picks of one match for the AJAX endpoint
func (r *renderer) fragmentHTML(data fragmentView) (string, error) {
	var buf bytes.Buffer
	if err := r.fragment.ExecuteTemplate(&buf, "fragment", data); err != nil {
		return "", fmt.Errorf("failed to render fragment: %w", err)
	}
	return buf.String(), nil
}

type matchView struct {
	Sport     models.Sport
	SportName string
	EventID   string
	Label     string
	Kickoff   string
	Path      string
}

func newMatchView(m models.Match, loc *time.Location) matchView {
	v := matchView{
		Sport:     m.Sport,
		SportName: m.Sport.DisplayName(),
		EventID:   m.EventID.String(),
		Label:     m.Label(),
		Path:      predictPath(m),
	}
	if start, err := m.StartsAt(); err == nil {
		v.Kickoff = start.In(loc).Format("Jan 2 15:04 MST")
	}
	return v
}

// predictPath links a match to its detail page under its prediction label
func predictPath(m models.Match) string {
	return "/predict/" + url.PathEscape(m.Sport.PredictionLabel()) +
		"/" + url.PathEscape(m.EventID.String()) +
		"/" + url.PathEscape(m.Home) +
		"/" + url.PathEscape(m.Away)
}

type matchesPage struct {
	Matches []matchView
}

type picksPage struct {
	Picks       []models.Pick
	RefreshedAt string
}

type predictPage struct {
	Home  string
	Away  string
	Props []models.PredictionProp
}

type fragmentView struct {
	EventID string
	Picks   []models.Pick
}
