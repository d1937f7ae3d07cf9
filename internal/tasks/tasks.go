package tasks

import (
	"context"
	"encoding/json"
	"log"

	"github.com/kawojue/phrednetwork/pkg/mailer"

	"github.com/hibiken/asynq"
)

const (
	TypeEmailSend = "email:send"
)

type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewEmailTask(to, subject, body string) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailSend, payload, asynq.MaxRetry(5)), nil
}

// EmailProcessor delivers queued emails through Plunk.
type EmailProcessor struct {
	mail *mailer.Client
}

func NewEmailProcessor(mail *mailer.Client) *EmailProcessor {
	return &EmailProcessor{mail: mail}
}

func (p *EmailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	if err := p.mail.Send(ctx, payload.To, payload.Subject, payload.Body); err != nil {
		log.Printf("[Email] send to %s failed: %v", payload.To, err)
		return err
	}
	return nil
}
