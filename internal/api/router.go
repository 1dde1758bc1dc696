package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/answer-keys", func(r chi.Router) {
			r.Post("/", app.CreateAnswerKeyHandler)
			r.Get("/", app.ListAnswerKeysHandler)
			r.Get("/{id}", app.GetAnswerKeyHandler)
			r.Post("/{id}/approve", app.ApproveAnswerKeyHandler)
			r.Post("/{id}/archive", app.ArchiveAnswerKeyHandler)
			r.Get("/{id}/results", app.ListResultsHandler)
		})

		r.Route("/students", func(r chi.Router) {
			r.Post("/", app.UpsertStudentsHandler)
			r.Get("/", app.ListStudentsHandler)
		})

		r.Post("/scans", app.ScanHandler)
		r.Patch("/scan-results/{id}/student", app.ReassignStudentHandler)
	})

	return r
}
