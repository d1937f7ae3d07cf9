package main

import (
	"log"

	"github.com/kawojue/phrednetwork/config"
	"github.com/kawojue/phrednetwork/internal/tasks"
	"github.com/kawojue/phrednetwork/pkg/mailer"

	"github.com/hibiken/asynq"
)

func main() {
	cfg := config.Load()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Redis.Addr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	processor := tasks.NewEmailProcessor(mailer.NewClient(cfg.Plunk.APIKey))
	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeEmailSend, processor)

	log.Printf("worker consuming from %s", cfg.Redis.Addr)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
