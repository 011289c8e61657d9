package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/qadocs/auth"
	"github.com/a-h/qadocs/db"
	"github.com/a-h/qadocs/events"
	accountget "github.com/a-h/qadocs/handlers/account/get"
	matchpost "github.com/a-h/qadocs/handlers/match/post"
	qadocumentdelete "github.com/a-h/qadocs/handlers/qadocument/delete"
	qadocumentget "github.com/a-h/qadocs/handlers/qadocument/get"
	qadocumentput "github.com/a-h/qadocs/handlers/qadocument/put"
	qadocumentsget "github.com/a-h/qadocs/handlers/qadocuments/get"
	qadocumentspost "github.com/a-h/qadocs/handlers/qadocuments/post"
	"github.com/a-h/qadocs/index"
	"github.com/a-h/qadocs/metrics"
	"github.com/a-h/qadocs/models"
	"github.com/a-h/qadocs/ratelimit"
	"github.com/a-h/qadocs/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rqlite/gorqlite"
	"github.com/rs/cors"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
)

type ServeCommand struct {
	RqliteURL      string   `help:"The URL of the rqlite server." env:"RQLITE_URL" default:"http://localhost:4001"`
	OllamaURL      string   `help:"The URL of the Ollama server." env:"OLLAMA_URL" default:"http://127.0.0.1:11434/"`
	EmbeddingModel string   `help:"The model to use for embeddings." env:"EMBEDDING_MODEL" default:"nomic-embed-text"`
	ListenAddr     string   `help:"The address to listen on." env:"LISTEN_ADDR" default:"localhost:9020"`
	TLSCertFile    string   `help:"The TLS certificate file." env:"TLS_CERT_FILE" default:""`
	TLSKeyFile     string   `help:"The TLS key file." env:"TLS_KEY_FILE" default:""`
	APIKeysFile    string   `help:"The file containing a JSON map of API keys to users." env:"API_KEYS_FILE" default:"apikeys.json"`
	KafkaBrokers   []string `help:"Kafka brokers to publish QA document events to. Events are not published if empty." env:"KAFKA_BROKERS" default:""`
	KafkaTopic     string   `help:"The Kafka topic for QA document events." env:"KAFKA_TOPIC" default:"qa_documents"`
	RateLimit      float64  `help:"Requests per second allowed for each user, 0 to disable." env:"RATE_LIMIT" default:"10"`
	RateLimitBurst int      `help:"Burst size of the rate limit." env:"RATE_LIMIT_BURST" default:"20"`
	LogLevel       string   `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c ServeCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)

	log.Info("connecting to database", slog.String("url", c.RqliteURL))
	databaseURL, err := db.ParseRqliteURL(c.RqliteURL)
	if err != nil {
		return fmt.Errorf("failed to parse rqlite URL: %w", err)
	}
	conn, err := gorqlite.Open(databaseURL.DataSourceName())
	if err != nil {
		return fmt.Errorf("failed to open connection: %w", err)
	}
	defer conn.Close()
	queries := db.New(conn)

	log.Info("migrating database schema")
	if err = db.Migrate(databaseURL); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("creating embedding client", slog.String("model", c.EmbeddingModel))
	ec, err := ollama.New(
		ollama.WithModel(c.EmbeddingModel),
		ollama.WithHTTPClient(&http.Client{}),
		ollama.WithServerURL(c.OllamaURL))
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	emb, err := embeddings.NewEmbedder(ec)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	var publisher events.Publisher = events.Noop{}
	if brokers := nonEmpty(c.KafkaBrokers); len(brokers) > 0 {
		log.Info("publishing events to kafka", slog.Any("brokers", brokers), slog.String("topic", c.KafkaTopic))
		publisher = events.NewKafka(brokers, c.KafkaTopic)
	}
	defer publisher.Close()

	svc := service.New(log, queries, index.New(log, emb, queries), publisher)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics.RegisterCollectors(reg)

	mux := http.NewServeMux()
	route := func(pattern string, h http.Handler) {
		mux.Handle(pattern, metrics.Handler(pattern, h))
	}
	for _, kind := range models.ContainerKinds {
		base := fmt.Sprintf("/%s/{id}/qa_documents", kind)
		route("GET "+base, qadocumentsget.New(log, svc, kind))
		route("POST "+base, qadocumentspost.New(log, svc, kind))
		route("POST "+base+"/match", matchpost.New(log, svc, kind))
		route("GET "+base+"/{docId}", qadocumentget.New(log, svc, kind))
		route("PUT "+base+"/{docId}", qadocumentput.New(log, svc, kind))
		route("DELETE "+base+"/{docId}", qadocumentdelete.New(log, svc, kind))
	}
	route("GET /account", accountget.New(log))

	apiKeyToUser, err := auth.LoadFromFile(c.APIKeysFile)
	if err != nil {
		return fmt.Errorf("failed to load API keys: %w", err)
	}
	authenticatedMux := auth.New(apiKeyToUser, ratelimit.New(c.RateLimit, c.RateLimitBurst, mux))

	root := http.NewServeMux()
	root.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	root.Handle("/", authenticatedMux)
	withCORS := cors.AllowAll().Handler(root)

	log.Info("Listening", slog.String("addr", c.ListenAddr))
	s := &http.Server{
		Addr:    c.ListenAddr,
		Handler: withCORS,
	}
	if c.TLSCertFile != "" && c.TLSKeyFile != "" {
		log.Info("Enabling TLS mode")
		var cert tls.Certificate
		cert, err = tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load cert: %w", err)
		}
		s.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
		return s.ListenAndServeTLS(c.TLSCertFile, c.TLSKeyFile)
	}
	return s.ListenAndServe()
}

func nonEmpty(values []string) (result []string) {
	for _, v := range values {
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
