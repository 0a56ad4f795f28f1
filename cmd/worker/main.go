package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/novalabs/nova-backend/internal/config"
	"github.com/novalabs/nova-backend/internal/db"
	"github.com/novalabs/nova-backend/internal/report"
	"github.com/novalabs/nova-backend/internal/session"
	"github.com/novalabs/nova-backend/internal/store"
	"github.com/novalabs/nova-backend/internal/store/gormstore"
	"github.com/novalabs/nova-backend/internal/store/redisstore"
)

type jobMsg struct {
	JobID string `json:"job_id"`
}

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)
	if err := gdb.AutoMigrate(&report.Job{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	repo := report.NewRepo(gdb)

	var kv store.KV
	switch cfg.StoreBackend {
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

	gen, err := report.NewGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("report generator: %v", err)
	}

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(cfg.RabbitQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.RabbitQueue + ".dlq",
	}); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	concurrency := workerConcurrency()
	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("worker started, queue=%s concurrency=%d", cfg.RabbitQueue, concurrency)

	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var m jobMsg
				if err := json.Unmarshal(d.Body, &m); err != nil || m.JobID == "" {
					log.Printf("worker=%d bad message: %v", workerID, err)
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := handleJob(ctx, gen, repo, sessions, m.JobID); err != nil {
					log.Printf("worker=%d job %s failed cost=%s err=%v", workerID, m.JobID, time.Since(start), err)
					_ = d.Nack(false, false)
					continue
				}
				if err := d.Ack(false); err != nil {
					log.Printf("worker=%d ack failed job=%s err=%v", workerID, m.JobID, err)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Printf("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}

func handleJob(ctx context.Context, gen *report.Generator, repo *report.Repo, sessions *session.Store, jobID string) error {
	if err := repo.UpdateJobStatusRunning(ctx, jobID); err != nil {
		if errors.Is(err, report.ErrJobNotQueued) {
			// duplicate delivery, another worker already owns the job
			log.Printf("job %s not queued, skipping", jobID)
			return nil
		}
		return err
	}

	j, err := repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	sess, err := sessions.Get(ctx, j.SessionID)
	if err != nil {
		_ = repo.MarkJobFailed(ctx, jobID, err.Error())
		return err
	}

	rep, err := gen.Generate(ctx, sess.Messages)
	if err != nil {
		_ = repo.MarkJobFailed(ctx, jobID, err.Error())
		return err
	}

	b, err := json.Marshal(rep)
	if err != nil {
		_ = repo.MarkJobFailed(ctx, jobID, err.Error())
		return err
	}
	return repo.MarkJobSucceeded(ctx, jobID, string(b))
}
