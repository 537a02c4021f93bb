package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/metrics"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/repository"
)

// RequestParser turns an incoming HTTP request into an engine request. Parsing
// of raw querystring tokens is a collaborator concern, not the engine's.
type RequestParser interface {
	Parse(r *http.Request) (*model.Request, error)
}

type Server struct {
	engine *repository.Engine
	parser RequestParser
}

func New(engine *repository.Engine, parser RequestParser) *Server {
	return &Server{engine: engine, parser: parser}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotalCounter.Inc()

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	request, err := s.parser.Parse(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.engine.GetData(r.Context(), request)
	if err != nil {
		if errors.Is(err, model.ErrNotAvailable) {
			if request.Method == http.MethodHead {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			writeError(w, http.StatusNotFound, model.ErrNotAvailable.Error())
			return
		}
		log.Errorf("request failed: %+v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch {
	case request.Method == http.MethodHead:
		w.WriteHeader(http.StatusNoContent)

	case result.CSV != "":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write([]byte(result.CSV))

	default:
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(result.Envelope); err != nil {
			log.Errorf("failed to write response: %v", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"response":    message,
		"status_code": status,
		"status":      http.StatusText(status),
	})
}
