package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/clients/tg"
	"max.ks1230/gastos-bot/internal/logger"
	"max.ks1230/gastos-bot/internal/model/messages"
)

const (
	maxUpdateBytes = 1 << 20
	handleTimeout  = 25 * time.Second
)

type incomingHandler interface {
	HandleIncoming(ctx context.Context, in messages.Incoming) error
}

// NewHandler serves Telegram webhook deliveries on updatePath. A GET on the
// same path reports liveness; /metrics exposes Prometheus.
func NewHandler(updatePath string, handler incomingHandler) http.Handler {
	if updatePath == "" {
		updatePath = "/"
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc(updatePath, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handleHealth(w, r)
		case http.MethodPost:
			handleUpdate(w, r, handler)
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

// handleUpdate acknowledges every well-formed update, including ones whose
// processing failed, so Telegram does not redeliver them.
func handleUpdate(w http.ResponseWriter, r *http.Request, handler incomingHandler) {
	var update tgbotapi.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes)).Decode(&update); err != nil {
		logger.Warn("cannot decode update", zap.Error(err))
		http.Error(w, "bad update", http.StatusBadRequest)
		return
	}

	in, ok := tg.ToIncoming(update)
	if !ok {
		logger.Debug("skipping update", zap.Int("updateID", update.UpdateID))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handleTimeout)
	defer cancel()

	if err := handler.HandleIncoming(ctx, in); err != nil {
		logger.Error("error processing update:", zap.Error(err), zap.Int("updateID", update.UpdateID))
	}
	w.WriteHeader(http.StatusNoContent)
}
