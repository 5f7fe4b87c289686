package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"lab-report-reader/internal/domain"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(reportHandler *ReportHandler, logger domain.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(RequestLogger(logger))

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"lab-report-reader"}`))
	}).Methods("GET")

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/patterns", reportHandler.ListPatterns).Methods("GET")
	api.HandleFunc("/extract", reportHandler.ExtractText).Methods("POST")

	// Report routes
	api.HandleFunc("/reports", reportHandler.UploadReport).Methods("POST")
	api.HandleFunc("/reports/{id}", reportHandler.GetReport).Methods("GET")
	api.HandleFunc("/reports/{id}/export", reportHandler.ExportReport).Methods("GET")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // SvelteKit dev server
			"http://localhost:4173", // SvelteKit preview
			"http://localhost:3000", // Alternative dev port
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			RequestIDHeader,
		},
		ExposedHeaders: []string{
			"Content-Disposition",
			RequestIDHeader,
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
