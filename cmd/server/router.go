package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pklenglish/study-api/internal/api"
	apiMiddleware "github.com/pklenglish/study-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService, app.validate)
	topicHandler := api.NewTopicHandler(app.catalogService, app.validate)
	studyHandler := api.NewStudyHandler(app.studyService, app.sessions, app.validate, app.logger)
	notebookHandler := api.NewNotebookHandler(app.notebookService, app.sessions, app.validate, app.logger)
	statsHandler := api.NewStatsHandler(app.statsService)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Topic and vocabulary management
			r.Get("/topics", topicHandler.List)
			r.Post("/topics", topicHandler.Create)
			r.Get("/topics/{topicID}", topicHandler.Get)
			r.Put("/topics/{topicID}", topicHandler.Update)
			r.Delete("/topics/{topicID}", topicHandler.Delete)
			r.Get("/topics/{topicID}/vocabulary", topicHandler.ListVocabulary)
			r.Post("/topics/{topicID}/vocabulary", topicHandler.CreateVocabulary)
			r.Put("/vocabulary/{vocabularyID}", topicHandler.UpdateVocabulary)
			r.Delete("/vocabulary/{vocabularyID}", topicHandler.DeleteVocabulary)

			// Flashcard study
			r.Get("/topics/{topicID}/study/next", studyHandler.NextCard)
			r.Post("/study/answer", studyHandler.SubmitAnswer)
			r.Post("/topics/{topicID}/study/reset", studyHandler.ResetTopic)
			r.Post("/topics/{topicID}/study/end", studyHandler.EndSitting)
			r.Get("/topics/{topicID}/progress", statsHandler.TopicProgress)

			// Notebook and notebook review
			r.Get("/notebook", notebookHandler.List)
			r.Post("/notebook", notebookHandler.Add)
			r.Delete("/notebook/{vocabularyID}", notebookHandler.Remove)
			r.Put("/notebook/{vocabularyID}/note", notebookHandler.UpdateNote)
			r.Get("/notebook/review/next", notebookHandler.NextQuestion)
			r.Post("/notebook/review/answer", notebookHandler.CheckAnswer)
			r.Post("/notebook/review/end", notebookHandler.EndSitting)

			// Statistics
			r.Get("/stats", statsHandler.Report)
			r.Get("/stats/summary", statsHandler.Summary)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
