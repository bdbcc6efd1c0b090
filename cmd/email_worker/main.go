package main

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/config"
	"github.com/oksasatya/sneakerhub-api/pkg/helpers"
	"github.com/oksasatya/sneakerhub-api/pkg/mailer"
	mailtpl "github.com/oksasatya/sneakerhub-api/pkg/mailer/templates"
)

const (
	consumerTag     = "sneakerhub-email-worker"
	maxSendAttempts = 3
)

var errBadJob = errors.New("bad email job")

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQEmailQueue, true, false, false, false, nil); err != nil {
		logger.Fatalf("queue declare: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	// failed sends go back to the tail of the queue through a confirm-mode publisher
	retry, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		logger.Fatalf("retry publisher: %v", err)
	}
	defer retry.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := &worker{
		Sender:      mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		Retry:       retry,
		MaxAttempts: maxSendAttempts,
		Logger:      logger,
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			w.handle(ctx, msg)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-ctx.Done()
	logger.Info("shutting down")
	_ = ch.Cancel(consumerTag, false)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}

// acker is the part of amqp.Delivery the worker settles messages with.
type acker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type worker struct {
	Sender      mailer.Sender
	Retry       mailer.JobPublisher // nil disables retries
	MaxAttempts int
	Logger      *logrus.Logger
	now         func() time.Time
}

func (w *worker) handle(ctx context.Context, msg amqp.Delivery) {
	w.settle(ctx, msg.Body, msg)
}

func (w *worker) clock() time.Time {
	if w.now != nil {
		return w.now()
	}
	return time.Now()
}

// settle delivers one job. Malformed jobs are dropped and expired ones skipped. A failed send is
// republished with its attempt count bumped until MaxAttempts, then dropped. Nothing is requeued in place.
func (w *worker) settle(ctx context.Context, body []byte, a acker) {
	job, err := decodeJob(body)
	if err != nil {
		w.Logger.WithError(err).Warn("dropping email job")
		_ = a.Nack(false, false)
		return
	}
	if job.Expired(w.clock()) {
		w.Logger.WithFields(logrus.Fields{"to": job.To, "expires_at": job.ExpiresAt}).Info("skipping expired email job")
		_ = a.Ack(false)
		return
	}
	subject, text, html, err := renderJob(job)
	if err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("dropping email job")
		_ = a.Nack(false, false)
		return
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		w.retry(ctx, job, a, err)
		return
	}
	_ = a.Ack(false)
}

func (w *worker) retry(ctx context.Context, job mailer.EmailJob, a acker, sendErr error) {
	job.Attempts++
	entry := w.Logger.WithError(sendErr).WithFields(logrus.Fields{"to": job.To, "attempt": job.Attempts})
	if w.Retry == nil || job.Attempts >= w.MaxAttempts || job.Expired(w.clock()) {
		entry.Error("send failed, dropping email job")
		_ = a.Nack(false, false)
		return
	}
	if err := w.Retry.PublishJSON(ctx, job); err != nil {
		entry.WithField("publish_error", err.Error()).Error("send failed and retry publish failed, dropping email job")
		_ = a.Nack(false, false)
		return
	}
	entry.Warn("send failed, queued another attempt")
	_ = a.Ack(false)
}

func decodeJob(body []byte) (mailer.EmailJob, error) {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, errors.Join(errBadJob, err)
	}
	if job.To == "" {
		return job, errors.Join(errBadJob, errors.New("missing recipient"))
	}
	if job.Template == "" && job.Subject == "" {
		return job, errors.Join(errBadJob, errors.New("missing template or subject"))
	}
	return job, nil
}

func renderJob(job mailer.EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	return mailtpl.Render(job.Template, job.Data)
}
