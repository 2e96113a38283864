package http

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

const BasePath = "/api/v1"

// MaxBodyBytes caps request bodies read by the handlers.
const MaxBodyBytes = 1 << 20

type ServerConfig struct {
	Port   int
	Logger *zerolog.Logger
}

func NewServer(config ServerConfig, h *BookHandler) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", ping)
	mux.HandleFunc("/readyz", h.ready)
	mux.HandleFunc(BasePath+"/books", h.books)
	mux.HandleFunc(BasePath+"/books/", h.bookById)

	log := zerolog.Nop()
	if config.Logger != nil {
		log = *config.Logger
	}

	var handler http.Handler = mux
	handler = BodyLimitMiddleware(MaxBodyBytes)(handler)
	handler = RecoveryMiddleware(handler)
	handler = AccessLogMiddleware(handler)
	handler = RequestIDMiddleware(log)(handler)

	server := http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: handler,
	}
	return &server
}

/* Tests the http server connection.  */
func ping(w http.ResponseWriter, r *http.Request) {
	method := r.Method
	if method == http.MethodGet {
		w.WriteHeader(http.StatusNoContent)
		return
	} else {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}
