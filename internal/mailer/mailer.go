// Package mailer sends owner-facing notifications over SMTP. The
// listing's own contact email is the destination; listings without
// one are silently skipped. All sends are best effort.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
	"github.com/ferialibre/catalog-service/internal/platform/logger"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

// New builds a Mailer. With an empty from address the mailer is
// disabled and every send becomes a no-op.
func New(host string, port int, from, password string, log *logger.Logger) *Mailer {
	m := &Mailer{from: from, logger: log.Named("mailer")}
	if from != "" {
		m.dialer = gomail.NewDialer(host, port, from, password)
	}
	return m
}

func (m *Mailer) send(to, subject, body string) error {
	if m.dialer == nil || to == "" {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Warn("Mailer.send: delivery failed", "to", to, "subject", subject, "error", err.Error())
		return err
	}
	return nil
}

func (m *Mailer) ListingPublished(l *domain.Listing) error {
	subject, body := publishedMessage(l)
	return m.send(l.Contact.Email, subject, body)
}

func (m *Mailer) ListingExhausted(l *domain.Listing) error {
	subject, body := exhaustedMessage(l)
	return m.send(l.Contact.Email, subject, body)
}

func publishedMessage(l *domain.Listing) (subject, body string) {
	subject = "Tu publicación ya está activa"
	body = fmt.Sprintf(
		"Hola!\n\nTu publicación \"%s\" ya se encuentra activa y visible para toda la comunidad.\n\nPodés compartirla con este enlace: /%s\n",
		l.Title, l.Slug)
	return subject, body
}

func exhaustedMessage(l *domain.Listing) (subject, body string) {
	switch l.Family {
	case domain.FamilyService:
		subject = "Se agotaron los cupos de tu publicación"
		body = fmt.Sprintf(
			"Hola!\n\nTu publicación \"%s\" se quedó sin cupos disponibles.\nSi querés seguir recibiendo reservas, actualizá los cupos desde tu panel.\n",
			l.Title)
	default:
		subject = "Se agotó el stock de tu publicación"
		body = fmt.Sprintf(
			"Hola!\n\nTu publicación \"%s\" se quedó sin stock.\nSi conseguís más unidades, actualizá el stock desde tu panel.\n",
			l.Title)
	}
	return subject, body
}
