package queue

import (
	"encoding/json"

	"github.com/charmbracelet/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/satiscrm/crm-api/internal/usecase"
)

// WelcomeMailer delivers the post-conversion welcome message.
type WelcomeMailer interface {
	SendWelcomeEmail(name, email string) error
}

// Worker consumes conversion events and runs the follow-up side effects.
// It is fully decoupled from the database: everything it needs travels in
// the event body.
type Worker struct {
	Channel *amqp.Channel
	Mailer  WelcomeMailer
	Logger  *log.Logger
}

func NewWorker(ch *amqp.Channel, mailer WelcomeMailer, logger *log.Logger) *Worker {
	return &Worker{
		Channel: ch,
		Mailer:  mailer,
		Logger:  logger,
	}
}

func (w *Worker) Start(queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			var payload usecase.ConversionPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				w.Logger.Error("conversion event with invalid body", "err", err)
				// Malformed message. Reject without requeue so it goes to
				// the DLQ instead of looping.
				d.Nack(false, false)
				continue
			}

			if err := w.process(payload); err != nil {
				w.Logger.Error("conversion follow-up failed",
					"customer_id", payload.CustomerID, "err", err)
				d.Nack(false, false)
				continue
			}

			w.Logger.Info("conversion follow-up done",
				"customer_id", payload.CustomerID, "company", payload.CompanyName)
			d.Ack(false)
		}
	}()

	w.Logger.Info("conversion worker waiting", "queue", queueName)
	return nil
}

func (w *Worker) process(payload usecase.ConversionPayload) error {
	if payload.POCEmail == "" {
		// Nothing to send a welcome to. Ack and move on.
		w.Logger.Warn("conversion event without contact email", "customer_id", payload.CustomerID)
		return nil
	}
	return w.Mailer.SendWelcomeEmail(payload.POCName, payload.POCEmail)
}
