// Package mail delivers notification emails on a background worker pool so
// that no request handler ever waits on SMTP.
package mail

import (
	"log"
	"sync"

	"gopkg.in/gomail.v2"
)

type Email struct {
	To      string
	Subject string
	Body    string
}

// Sender enqueues an email for asynchronous delivery.
type Sender interface {
	Enqueue(e Email)
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Workers  int
	Queue    int
}

// Worker sends queued emails over SMTP. Delivery is best effort: failures are
// logged and never retried or surfaced to the enqueuer.
type Worker struct {
	dialer *gomail.Dialer
	from   string
	queue  chan Email
	wg     sync.WaitGroup
	once   sync.Once
}

func NewWorker(cfg Config) *Worker {
	if cfg.Workers <= 0 {
		cfg.Workers = 3
	}
	if cfg.Queue <= 0 {
		cfg.Queue = 256
	}
	w := &Worker{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		queue:  make(chan Email, cfg.Queue),
	}
	for i := 0; i < cfg.Workers; i++ {
		w.wg.Add(1)
		go w.run()
	}
	return w
}

// Enqueue never blocks; when the queue is full the email is dropped with a
// logged failure.
func (w *Worker) Enqueue(e Email) {
	select {
	case w.queue <- e:
	default:
		log.Printf("mail queue full, dropping email to %s", e.To)
	}
}

// Close stops accepting emails and waits for in-flight sends to finish.
func (w *Worker) Close() {
	w.once.Do(func() { close(w.queue) })
	w.wg.Wait()
}

func (w *Worker) run() {
	defer w.wg.Done()
	for e := range w.queue {
		m := gomail.NewMessage()
		m.SetHeader("From", w.from)
		m.SetHeader("To", e.To)
		m.SetHeader("Subject", e.Subject)
		m.SetBody("text/plain", e.Body)
		if err := w.dialer.DialAndSend(m); err != nil {
			log.Printf("error sending email to %s: %v", e.To, err)
		}
	}
}

// Discard is a Sender that drops everything; used when SMTP is not configured.
type Discard struct{}

func (Discard) Enqueue(Email) {}
