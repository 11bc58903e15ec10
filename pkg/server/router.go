package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter maps the API routes onto srv and serves staticDir for every other
// path. Directories without an index.html answer 404.
func NewRouter(srv *Server, staticDir string) *mux.Router {
	router := mux.NewRouter()
	router.Use(srv.accessLog)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", srv.HandleHealth).Methods("GET")
	api.HandleFunc("/cards", srv.HandleListCards).Methods("GET")
	api.HandleFunc("/cards", srv.HandleSaveCards).Methods("POST")
	api.HandleFunc("/cards/{id:[0-9]+}", srv.HandleDeleteCard).Methods("DELETE")
	api.HandleFunc("/generate-verb", srv.HandleGenerateVerb).Methods("POST")
	api.HandleFunc("/process-sentence", srv.HandleProcessSentence).Methods("POST")

	router.PathPrefix("/").Handler(http.FileServer(newStaticFS(staticDir)))
	return router
}
