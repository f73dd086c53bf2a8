// Command server exposes the textlab primitives as a JSON REST API.
//
// Endpoints:
//
//	GET  /api/tokenize?text=<text>[&mode=word|sent|tweet|treebank|wordpunct][&html=1][&fold=1]
//	GET  /api/stem?word=<word>[&algorithm=porter|snowball][&lang=english]
//	GET  /api/lemmatize?word=<word>[&pos=n|v|a|r]
//	POST /api/replace        body: {"text":"...","mode":"contractions|repeats"}
//	POST /api/tag            body: {"text":"..."}
//	POST /api/chunk          body: {"text":"...","grammar":"..."}
//	GET  /api/synsets?word=<word>
//	POST /api/collocations   body: {"text":"...","n":10,"measure":"pmi"}
//
// Every POST body also accepts "html": true to read the text content of
// an HTML document and "fold": true to remove diacritics.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/cours-de-latin/textlab"
	"github.com/cours-de-latin/textlab/internal/config"
	"github.com/cours-de-latin/textlab/internal/logging"
)

// newMux registers every handler on a fresh mux.
func newMux(tk *textlab.Toolkit) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tokenize", handleTokenize())
	mux.HandleFunc("/api/stem", handleStem())
	mux.HandleFunc("/api/lemmatize", handleLemmatize(tk))
	mux.HandleFunc("/api/replace", handleReplace(tk))
	mux.HandleFunc("/api/tag", handleTag(tk))
	mux.HandleFunc("/api/chunk", handleChunk(tk))
	mux.HandleFunc("/api/synsets", handleSynsets(tk))
	mux.HandleFunc("/api/collocations", handleCollocations())
	return mux
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLog tags every request with an id and logs it once served.
func withRequestLog(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}

func newHandler(tk *textlab.Toolkit, cfg config.ServerConfig, log *zap.Logger) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	return withRequestLog(log, c.Handler(newMux(tk)))
}

func main() {
	configPath := flag.String("config", "textlab.yaml", "path to configuration file")
	dataDir := flag.String("data", "", "path to corpora directory (overrides data_dir)")
	addr := flag.String("addr", "", "listen address (overrides server.addr)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	log, err := logging.New(cfg.Logging, *verbose)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	log.Info("loading data", zap.String("data_dir", cfg.DataDir))
	tk, err := textlab.New(cfg.DataDir)
	if err != nil {
		log.Fatal("failed to load data", zap.Error(err))
	}
	log.Info("data loaded", zap.Bool("wordnet", tk.WordNet() != nil))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newHandler(tk, cfg.Server, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("addr", cfg.Server.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", zap.Error(err))
	}
}
