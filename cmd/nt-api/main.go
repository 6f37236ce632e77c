package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"NavTrace/internal/config"
	"NavTrace/internal/query"
	"NavTrace/internal/storage"

	"github.com/gorilla/mux"
)

// APIHandler bundles the query dependencies for the HTTP routes.
type APIHandler struct {
	querier query.Querier
	latest  *storage.LatestStore
}

func (h *APIHandler) framesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	instance := -1
	if v := q.Get("instance"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 || parsed > 255 {
			http.Error(w, "invalid instance", http.StatusBadRequest)
			return
		}
		instance = parsed
	}

	var from, to time.Time
	if v := q.Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid from timestamp", http.StatusBadRequest)
			return
		}
		from = parsed
	}
	if v := q.Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid to timestamp", http.StatusBadRequest)
			return
		}
		to = parsed
	}

	limit := 100
	if v := q.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.querier.Frames(r.Context(), instance, from, to, limit)
	if err != nil {
		log.Printf("Frames query failed: %v", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

func (h *APIHandler) summariesHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.querier.Summaries(r.Context())
	if err != nil {
		log.Printf("Summaries query failed: %v", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, summaries)
}

func (h *APIHandler) latestHandler(w http.ResponseWriter, r *http.Request) {
	if h.latest == nil {
		http.Error(w, "latest-frame cache not configured", http.StatusNotFound)
		return
	}

	instance, err := strconv.Atoi(r.URL.Query().Get("instance"))
	if err != nil || instance < 0 || instance > 255 {
		http.Error(w, "invalid instance", http.StatusBadRequest)
		return
	}

	f, err := h.latest.Get(r.Context(), uint8(instance))
	if err != nil {
		log.Printf("Latest-frame lookup failed: %v", err)
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}
	if f == nil {
		http.Error(w, "no frame cached for instance", http.StatusNotFound)
		return
	}
	writeJSON(w, query.FrameRecord{
		Timestamp:   f.Timestamp,
		Instance:    f.Instance,
		Flags:       f.Flags,
		Len:         uint16(f.Len),
		ReportedLen: f.ReportedLen(),
		Data:        f.Data,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Find the first enabled ClickHouse writer config; the API queries the
	// same store the collector writes to.
	var chCfg *config.ClickHouseConfig
	for _, writerDef := range cfg.Collector.Writers {
		if writerDef.Enabled && writerDef.Type == "clickhouse" {
			chCfg = &writerDef.ClickHouse
			break
		}
	}
	if chCfg == nil {
		log.Fatalf("No enabled ClickHouse writer found in config. API server cannot start.")
	}

	querier, err := query.NewClickHouseQuerier(*chCfg)
	if err != nil {
		log.Fatalf("Failed to create querier: %v", err)
	}

	var latest *storage.LatestStore
	if cfg.Redis.Addr != "" {
		latest, err = storage.NewLatestStore(cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer latest.Close()
	}

	r := mux.NewRouter()
	apiHandler := &APIHandler{querier: querier, latest: latest}
	r.HandleFunc("/api/v1/frames", apiHandler.framesHandler).Methods("GET")
	r.HandleFunc("/api/v1/frames/latest", apiHandler.latestHandler).Methods("GET")
	r.HandleFunc("/api/v1/summaries", apiHandler.summariesHandler).Methods("GET")

	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("API server stopped.")
}
