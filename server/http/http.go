package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/quietfoundry/rolodex/internal/service/knowledge"
	"github.com/quietfoundry/rolodex/server"
)

const defaultConversation = "default"

type askRequest struct {
	Query string `json:"query"`
}

type askHandler struct {
	service *knowledge.Service
	options server.Options
}

func (h *askHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userId := strings.TrimSpace(r.Header.Get(h.options.UserHeader))
	if len(userId) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "missing " + h.options.UserHeader + " header",
		})
		return
	}

	conversationId := r.Header.Get(h.options.ConversationHeader)
	if len(conversationId) == 0 {
		conversationId = defaultConversation
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(strings.TrimSpace(req.Query)) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "missing query",
		})
		return
	}

	ctx := r.Context()
	if h.options.UpstreamTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.options.UpstreamTimeout)
		defer cancel()
	}

	result, err := h.service.Handle(ctx, userId, conversationId, req.Query)
	if err != nil {
		slog.ErrorContext(ctx, "query handling failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(context.Background(), "failed to encode response", "error", err)
	}
}

// NewHandler wires the /ask route and middleware into an http.Handler.
func NewHandler(svc *knowledge.Service, opts ...server.Option) http.Handler {
	options := server.NewOptions(opts...)

	router := mux.NewRouter()
	router.Handle("/ask", &askHandler{service: svc, options: options}).Methods(http.MethodPost)

	router.Use(Recover, RequestId, Logging)

	if ms, ok := MiddlewareFrom(options.Context); ok {
		for _, m := range ms {
			router.Use(mux.MiddlewareFunc(m))
		}
	}

	return router
}

// NewServer wraps the handler in an http.Server with bounded
// read/write timeouts.
func NewServer(svc *knowledge.Service, opts ...server.Option) *http.Server {
	options := server.NewOptions(opts...)

	return &http.Server{
		Addr:         options.Address,
		Handler:      NewHandler(svc, opts...),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}
