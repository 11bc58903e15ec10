package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"flashcards/pkg/core"
	"flashcards/pkg/llm"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const healthMessage = "Spanish Flashcards API is running!"

// Proxy is the generation backend behind the two generate endpoints.
type Proxy interface {
	GenerateVerb(ctx context.Context, verb string) (json.RawMessage, error)
	ProcessSentence(ctx context.Context, sentence string) (json.RawMessage, error)
}

type Server struct {
	core   core.Core
	proxy  Proxy
	logger *zap.Logger
}

func New(core core.Core, proxy Proxy, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{core, proxy, logger}
}

type errorBody struct {
	Error string `json:"error"`
}

type malformedBody struct {
	Error       string `json:"error"`
	RawResponse string `json:"raw_response"`
}

type messageBody struct {
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error(msg,
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err))
	}
	s.writeJSON(w, status, errorBody{Error: msg})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}{"healthy", healthMessage})
}

func (s *Server) HandleListCards(w http.ResponseWriter, r *http.Request) {
	listing, err := s.core.List(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}
	s.writeJSON(w, http.StatusOK, listing)
}

func (s *Server) HandleSaveCards(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "No data provided", err)
		return
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil || isEmptyPayload(payload) {
		s.writeError(w, r, http.StatusBadRequest, "No data provided", err)
		return
	}

	fields, ok := payload.(map[string]interface{})
	if !ok {
		switch payload.(type) {
		case []interface{}, string:
			// Holds no card lists.
			s.writeJSON(w, http.StatusOK, messageBody{"Saved 0 cards successfully"})
		default:
			err := errors.Errorf("cards payload must be an object, got %s", string(body))
			s.writeError(w, r, http.StatusInternalServerError, err.Error(), err)
		}
		return
	}
	for _, key := range []string{"verb_cards", "sentence_cards"} {
		if v, present := fields[key]; present && v == nil {
			err := errors.Errorf("%s must be a list, got null", key)
			s.writeError(w, r, http.StatusInternalServerError, err.Error(), err)
			return
		}
	}

	var req core.SaveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	saved, err := s.core.Save(r.Context(), req)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}
	s.writeJSON(w, http.StatusOK, messageBody{fmt.Sprintf("Saved %d cards successfully", saved)})
}

// isEmptyPayload reports whether a decoded body carries no data: null, false,
// zero, the empty string, or an empty array or object.
func isEmptyPayload(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	case float64:
		return v == 0
	case string:
		return v == ""
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	}
	return false
}

func (s *Server) HandleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, "Not found", err)
		return
	}
	raw, present := r.URL.Query()["type"]
	kind := core.ParseCardType(first(raw), present)

	if err := s.core.Delete(r.Context(), id, kind); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}
	s.writeJSON(w, http.StatusOK, messageBody{"Card deleted successfully"})
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (s *Server) HandleGenerateVerb(w http.ResponseWriter, r *http.Request) {
	var reqBody struct {
		Verb string `json:"verb"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "No verb provided", err)
		return
	}
	defer r.Body.Close()

	obj, err := s.proxy.GenerateVerb(r.Context(), reqBody.Verb)
	s.writeGenerated(w, r, obj, err, "No verb provided")
}

func (s *Server) HandleProcessSentence(w http.ResponseWriter, r *http.Request) {
	var reqBody struct {
		Sentence string `json:"sentence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "No sentence provided", err)
		return
	}
	defer r.Body.Close()

	obj, err := s.proxy.ProcessSentence(r.Context(), reqBody.Sentence)
	s.writeGenerated(w, r, obj, err, "No sentence provided")
}

func (s *Server) writeGenerated(w http.ResponseWriter, r *http.Request, obj json.RawMessage, err error, emptyMsg string) {
	var (
		malformed   *llm.MalformedError
		unreachable *llm.UnreachableError
	)
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(obj); err != nil {
			s.logger.Warn("write response", zap.Error(err))
		}
	case errors.Is(err, llm.ErrEmptyInput):
		s.writeError(w, r, http.StatusBadRequest, emptyMsg, err)
	case errors.As(err, &malformed):
		s.logger.Error("unparsable completion",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestID(r.Context())),
			zap.Int("raw_len", len(malformed.Raw)))
		s.writeJSON(w, http.StatusInternalServerError, malformedBody{Error: malformed.Error(), RawResponse: malformed.Raw})
	case errors.As(err, &unreachable):
		s.writeError(w, r, http.StatusInternalServerError, unreachable.Error(), err)
	case errors.Is(err, llm.ErrRequestFailed):
		s.writeError(w, r, http.StatusInternalServerError, llm.ErrRequestFailed.Error(), err)
	default:
		s.writeError(w, r, http.StatusInternalServerError, err.Error(), err)
	}
}
