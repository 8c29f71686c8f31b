package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/BruksfildServices01/barbershop-site/internal/models"
)

// DefaultSMTPTimeout bounds a whole delivery when the caller's context has
// no earlier deadline.
const DefaultSMTPTimeout = 10 * time.Second

type SMTPConfig struct {
	Host    string
	Port    string
	User    string
	Pass    string
	From    string
	Timeout time.Duration
}

// SendFunc delivers one message. It must give up once ctx is done.
type SendFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPNotifier struct {
	addr    string
	auth    smtp.Auth
	from    string
	shop    string
	timeout time.Duration
	send    SendFunc
}

func NewSMTPNotifier(cfg SMTPConfig, shop string) *SMTPNotifier {
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		from = cfg.User
	}

	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultSMTPTimeout
	}

	return &SMTPNotifier{
		addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		auth:    auth,
		from:    from,
		shop:    shop,
		timeout: timeout,
		send:    sendMail,
	}
}

// WithSendFunc replaces the transport, used by tests.
func (n *SMTPNotifier) WithSendFunc(fn SendFunc) *SMTPNotifier {
	n.send = fn
	return n
}

func (n *SMTPNotifier) NotifyReceived(ctx context.Context, ap *models.Appointment, barber *models.Barber) Result {
	return n.deliver(ctx, KindReceived, ap, barber)
}

func (n *SMTPNotifier) NotifyConfirmed(ctx context.Context, ap *models.Appointment, barber *models.Barber) Result {
	return n.deliver(ctx, KindConfirmed, ap, barber)
}

func (n *SMTPNotifier) NotifyCancelled(ctx context.Context, ap *models.Appointment, barber *models.Barber) Result {
	return n.deliver(ctx, KindCancelled, ap, barber)
}

func (n *SMTPNotifier) deliver(ctx context.Context, kind Kind, ap *models.Appointment, barber *models.Barber) Result {
	if barber == nil {
		return Skipped(kind, ap, ErrBarberMissing)
	}
	if err := ctx.Err(); err != nil {
		return Skipped(kind, ap, err)
	}

	msg, err := BuildMessage(kind, n.shop, ap, barber)
	if err != nil {
		return Skipped(kind, ap, err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	raw := buildMIME(n.from, msg)
	err = n.send(ctx, n.addr, n.auth, n.from, []string{msg.To}, []byte(raw))
	return Result{Kind: kind, Recipient: msg.To, Err: err}
}

func buildMIME(from string, msg Message) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n",
		from,
		msg.To,
		mime.QEncoding.Encode("utf-8", msg.Subject),
		msg.HTML,
	)
}

// ======================================================
// TRANSPORT
// ======================================================

// sendMail follows smtp.SendMail, but every network step is bound to ctx:
// the dial honours it and the connection deadline is moved to now as soon
// as ctx is done.
func sendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return withCtx(ctx, err)
	}
	defer func() { _ = c.Close() }()

	if err := c.Hello("localhost"); err != nil {
		return withCtx(ctx, err)
	}
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return withCtx(ctx, err)
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return fmt.Errorf("smtp: server doesn't support AUTH")
		}
		if err := c.Auth(a); err != nil {
			return withCtx(ctx, err)
		}
	}

	if err := c.Mail(from); err != nil {
		return withCtx(ctx, err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return withCtx(ctx, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return withCtx(ctx, err)
	}
	if _, err := w.Write(msg); err != nil {
		return withCtx(ctx, err)
	}
	if err := w.Close(); err != nil {
		return withCtx(ctx, err)
	}
	return withCtx(ctx, c.Quit())
}

// withCtx reports the context error alongside an I/O error caused by it.
func withCtx(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	return err
}

var _ Notifier = (*SMTPNotifier)(nil)
