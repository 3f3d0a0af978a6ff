// cmd/prepline/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"prepline/internal/capability"
	"prepline/internal/common/config"
	"prepline/internal/common/logger"
	"prepline/internal/common/observability"
	"prepline/internal/models"
	"prepline/internal/pipeline"
	"prepline/internal/registry"
	"prepline/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	inputPath := flag.String("input", "", "path to a RawInput JSON file; runs one intake and exits")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting prepline pipeline service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("prepline", cfg.Observability.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Run Store ---
	var runStore store.Store
	if cfg.Store.Redis.Address != "" {
		var redisStore *store.Redis
		err = retryWithBackoff(func() error {
			redisStore = store.NewRedis(cfg.Store)
			return redisStore.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		runStore = redisStore
		zapLog.Info("Redis run store connected successfully")
	} else {
		runStore = store.NewMemory()
		zapLog.Info("No redis configured, using in-memory run store")
	}
	defer runStore.Close()

	// --- Init Registry + Orchestrator ---
	reg := registry.Default()

	resolverFactory := func() pipeline.ProfileResolver {
		return capability.NewResolver(cfg.Capability, reg, log)
	}
	orchestrator := pipeline.New(cfg, reg, resolverFactory, runStore, obs, log)

	if *inputPath != "" {
		runOnce(ctx, orchestrator, *inputPath, zapLog)
		return
	}

	// --- HTTP API + Health/Metrics ---
	mux := http.NewServeMux()
	registerRunRoutes(mux, orchestrator, log)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	server := &http.Server{
		Addr:    cfg.Observability.MetricsAddress,
		Handler: mux,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Prepline stopped gracefully")
}

// runOnce drives a single intake from a JSON file up to the first gate and
// prints the resulting run context, so a run can be started from a shell.
func runOnce(ctx context.Context, orchestrator *pipeline.Orchestrator, path string, log *zap.Logger) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("input file read failed", zap.Error(err))
	}

	var input models.RawInput
	if err := json.Unmarshal(raw, &input); err != nil {
		log.Fatal("input file parse failed", zap.Error(err))
	}

	rc, err := orchestrator.Start(ctx, input)
	if err != nil {
		log.Error("run halted", zap.Error(err), zap.String("state", string(rc.State)))
	}

	out, _ := json.MarshalIndent(rc, "", "  ")
	fmt.Println(string(out))
}

// registerRunRoutes exposes the run lifecycle over JSON: start an intake,
// release the two human gates, and fetch a run's current context.
func registerRunRoutes(mux *http.ServeMux, orchestrator *pipeline.Orchestrator, log logger.Logger) {
	mux.HandleFunc("/v1/runs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var input models.RawInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		rc, err := orchestrator.Start(r.Context(), input)
		writeRun(w, rc, err)
	})

	mux.HandleFunc("/v1/runs/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
		parts := strings.SplitN(rest, "/", 2)
		runID := parts[0]
		if runID == "" {
			http.NotFound(w, r)
			return
		}

		rc, ok, err := orchestrator.LoadRun(r.Context(), runID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if !ok {
			http.NotFound(w, r)
			return
		}

		if len(parts) == 1 {
			if r.Method != http.MethodGet {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			writeRun(w, rc, nil)
			return
		}

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		switch parts[1] {
		case "progress":
			var snapshot models.ProgressSnapshot
			if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			rc, err = orchestrator.ResumeProgress(r.Context(), rc, snapshot)
			writeRun(w, rc, err)
		case "quiz":
			var submission models.QuizSubmission
			if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			rc, err = orchestrator.ResumeQuiz(r.Context(), rc, submission)
			writeRun(w, rc, err)
		default:
			http.NotFound(w, r)
		}

		if err != nil {
			log.Warn("run operation failed", map[string]interface{}{
				"runId": runID,
				"error": err.Error(),
			})
		}
	})
}

// writeRun renders the run context; a halted run still returns its context
// so the caller sees the violation list, with a 422 instead of a 200.
func writeRun(w http.ResponseWriter, rc pipeline.RunContext, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	json.NewEncoder(w).Encode(rc)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
