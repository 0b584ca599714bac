package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cellarbook/vinident/internal/classify"
	"github.com/cellarbook/vinident/internal/escalate"
	"github.com/cellarbook/vinident/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the identification HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env.Engine),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(engine *escalate.Engine) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/identify", handleIdentify(engine))
	r.Post("/identify/stream", handleIdentifyStream(engine))
	r.Post("/identify/{requestID}/cancel", handleCancel(engine))
	r.Post("/premium", handlePremium(engine))

	return r
}

// identifyRequest is the wire shape for POST /identify and /identify/stream.
type identifyRequest struct {
	Text          string        `json:"text,omitempty"`
	Image         *imagePayload `json:"image,omitempty"`
	Supplementary string        `json:"supplementary,omitempty"`
	RequestID     string        `json:"request_id,omitempty"`
}

type imagePayload struct {
	Data     string `json:"data"` // base64
	MIMEType string `json:"mime_type"`
}

// premiumRequest adds the prior-result context to the identify shape.
type premiumRequest struct {
	identifyRequest

	Prior           *model.ParsedWineRecord `json:"prior,omitempty"`
	PriorConfidence int                     `json:"prior_confidence,omitempty"`
	LockedFields    []string                `json:"locked_fields,omitempty"`
}

// toInput validates the wire shape, assigning a request ID when the caller
// did not supply one so the result is always cancellable.
func (req *identifyRequest) toInput() (escalate.Input, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	in := escalate.Input{
		Text:          req.Text,
		Supplementary: req.Supplementary,
		RequestID:     req.RequestID,
	}
	if req.Image != nil {
		img, err := classify.Image(req.Image.Data, req.Image.MIMEType, req.Supplementary)
		if err != nil {
			return in, err
		}
		in.Image = img
	}
	return in, nil
}

func handleIdentify(engine *escalate.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req identifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		in, err := req.toInput()
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		w.Header().Set("X-Request-Id", in.RequestID)

		result, err := engine.Identify(r.Context(), in)
		writeResult(w, result, err)
	}
}

func handleIdentifyStream(engine *escalate.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req identifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		in, err := req.toInput()
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Request-Id", in.RequestID)
		w.WriteHeader(http.StatusOK)

		result, err := engine.IdentifyStream(r.Context(), in, func(field, value string) {
			writeEvent(w, "field", map[string]string{"field": field, "value": value})
			flusher.Flush()
		})
		if err != nil {
			writeEvent(w, "error", result)
			flusher.Flush()
			return
		}

		writeEvent(w, "result", result)
		flusher.Flush()
	}
}

func handleCancel(engine *escalate.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := chi.URLParam(r, "requestID")
		if err := engine.Cancel(requestID); err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":     "cancelling",
			"request_id": requestID,
		})
	}
}

func handlePremium(engine *escalate.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req premiumRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		in, err := req.toInput()
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		result, err := engine.RunPremium(r.Context(), escalate.PremiumRequest{
			Input:           in,
			Prior:           req.Prior,
			PriorConfidence: req.PriorConfidence,
			LockedFields:    req.LockedFields,
		})
		writeResult(w, result, err)
	}
}

// writeResult renders an engine outcome. Failures carry their taxonomy in the
// body; the HTTP status comes off the error kind.
func writeResult(w http.ResponseWriter, result *model.IdentifyResult, err error) {
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeEvent(w http.ResponseWriter, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch model.KindOf(err) {
	case model.ErrKindValidation:
		return http.StatusBadRequest
	case model.ErrKindQualityCheck:
		return http.StatusUnprocessableEntity
	case model.ErrKindProviderUnavailable:
		return http.StatusServiceUnavailable
	case model.ErrKindJSONParse, model.ErrKindStreaming:
		return http.StatusBadGateway
	case model.ErrKindCancelled:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
