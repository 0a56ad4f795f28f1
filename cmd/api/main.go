package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/novalabs/nova-backend/internal/ai"
	"github.com/novalabs/nova-backend/internal/chat"
	"github.com/novalabs/nova-backend/internal/config"
	"github.com/novalabs/nova-backend/internal/db"
	"github.com/novalabs/nova-backend/internal/httpapi"
	"github.com/novalabs/nova-backend/internal/httpapi/handlers"
	"github.com/novalabs/nova-backend/internal/profile"
	"github.com/novalabs/nova-backend/internal/report"
	"github.com/novalabs/nova-backend/internal/session"
	"github.com/novalabs/nova-backend/internal/store"
	"github.com/novalabs/nova-backend/internal/store/gormstore"
	"github.com/novalabs/nova-backend/internal/store/memstore"
	"github.com/novalabs/nova-backend/internal/store/rabbitmq"
	"github.com/novalabs/nova-backend/internal/store/redisstore"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	gdb := db.Connect(cfg.DBDSN)
	if err := gdb.AutoMigrate(&report.Job{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var kv store.KV
	switch cfg.StoreBackend {
	case "memory":
		kv = memstore.New()
	case "redis":
		kv = redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		gs, err := gormstore.New(gdb)
		if err != nil {
			log.Fatalf("gorm store: %v", err)
		}
		kv = gs
	}

	sessions := session.NewStore(kv)
	profiles := profile.NewService(kv)

	primary := ai.NewLocalProvider(cfg.NovaBackendURL, cfg.RequestTimeout)

	var fallback ai.Provider
	var reports *report.Generator
	if cfg.GeminiAPIKey != "" {
		gp, err := ai.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("gemini provider: %v", err)
		}
		fallback = gp

		reports, err = report.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("report generator: %v", err)
		}
	} else {
		log.Printf("GEMINI_API_KEY not set: cloud fallback and reports disabled")
	}

	dispatcher := ai.NewDispatcher(primary, fallback)
	chatSvc := chat.NewService(sessions, dispatcher)

	var rabbit *rabbitmq.Publisher
	if reports != nil {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.Printf("rabbit unavailable, async reports disabled: %v", err)
		} else {
			rabbit = p
			defer rabbit.Close()
		}
	}

	h := &handlers.Handler{
		ChatSvc:     chatSvc,
		Sessions:    sessions,
		Profile:     profiles,
		Reports:     reports,
		ReportRepo:  report.NewRepo(gdb),
		BackendURL:  cfg.NovaBackendURL,
		RelayClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
	// keep the interface field nil when the broker is down; a typed nil
	// pointer would defeat the handler's nil check
	if rabbit != nil {
		h.Rabbit = rabbit
	}

	r := httpapi.NewRouter(h)
	log.Printf("api listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
