package httpapi

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"vocab-engine/internal/config"
)

//go:embed templates/*.html
var pageFS embed.FS

var pageTmpl = template.Must(template.ParseFS(pageFS, "templates/*.html"))

type indexData struct {
	Cfg       config.Config
	Transport string
	TotalSent int
	SentToday int
	NextRun   string
	HasGate   bool
}

func (d Deps) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	cfg := d.cfg()
	info, err := d.DB.Info(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := indexData{
		Cfg:       cfg,
		Transport: cfg.MailTransport(),
		TotalSent: info.Count,
		SentToday: info.SentToday,
		HasGate:   cfg.Web.Password != "",
	}
	if d.NextRun != nil {
		if next := d.NextRun(); !next.IsZero() {
			data.NextRun = next.Format(time.RFC1123)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Printf("level=error msg=\"render index\" err=%q", err)
	}
}

func (d Deps) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	renderLogin(w, "")
}

func renderLogin(w http.ResponseWriter, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.ExecuteTemplate(w, "login.html", map[string]string{"Error": errMsg}); err != nil {
		log.Printf("level=error msg=\"render login\" err=%q", err)
	}
}
