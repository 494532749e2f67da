// Package notifier turns booking events into emails.  Delivery goes
// through MailerSend; rendering is plain html/template so the bodies
// can be tested without touching the network.
package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/ground-booking/internal/queue"
)

// Notifier sends notification emails for queue events.  A nil Client
// (no API key configured) makes Handle log and drop events, which
// keeps development environments working without MailerSend.
type Notifier struct {
	Client    *mailersend.Mailersend
	FromEmail string
	FromName  string
	Log       zerolog.Logger
}

// New builds a Notifier.  An empty apiKey disables delivery.
func New(apiKey, fromEmail, fromName string, log zerolog.Logger) *Notifier {
	n := &Notifier{FromEmail: fromEmail, FromName: fromName, Log: log}
	if apiKey != "" {
		n.Client = mailersend.NewMailersend(apiKey)
	}
	return n
}

var bookingTmpl = template.Must(template.New("booking").Parse(`<p>Hi {{.UserName}},</p>
<p>{{.Lead}}</p>
<ul>
<li>Reference: {{.BookingRef}}</li>
<li>Ground: {{.GroundName}} (field {{.FieldNumber}})</li>
<li>Date: {{.Date}}</li>
<li>Slots: {{.SlotList}}</li>
<li>Total: {{.TotalPrice}}</li>
</ul>`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<p>Hi {{.UserName}},</p>
<p>Your account is ready. Browse grounds, pick a free slot and book it.</p>`))

type bookingVars struct {
	UserName    string
	Lead        string
	BookingRef  string
	GroundName  string
	FieldNumber uint32
	Date        string
	SlotList    string
	TotalPrice  uint32
}

// Render produces the subject and HTML body for an event.  Unknown
// event types return an error so the consumer can reject them.
func Render(ev queue.Event) (subject, html string, err error) {
	var buf bytes.Buffer
	switch ev.Type {
	case queue.TypeUserRegistered:
		if err := welcomeTmpl.Execute(&buf, bookingVars{UserName: ev.UserName}); err != nil {
			return "", "", err
		}
		return "Welcome to Ground Booking", buf.String(), nil
	case queue.TypeBookingCreated, queue.TypeBookingUpdated, queue.TypeBookingCancelled:
		lead := map[string]string{
			queue.TypeBookingCreated:   "Your booking is confirmed.",
			queue.TypeBookingUpdated:   "Your booking was updated.",
			queue.TypeBookingCancelled: "Your booking was cancelled.",
		}[ev.Type]
		v := bookingVars{
			UserName:    ev.UserName,
			Lead:        lead,
			BookingRef:  ev.BookingRef,
			GroundName:  ev.GroundName,
			FieldNumber: ev.FieldNumber,
			Date:        ev.Date,
			SlotList:    strings.Join(ev.Slots, ", "),
			TotalPrice:  ev.TotalPrice,
		}
		if err := bookingTmpl.Execute(&buf, v); err != nil {
			return "", "", err
		}
		subj := map[string]string{
			queue.TypeBookingCreated:   "Booking confirmed",
			queue.TypeBookingUpdated:   "Booking updated",
			queue.TypeBookingCancelled: "Booking cancelled",
		}[ev.Type]
		return fmt.Sprintf("%s – %s on %s", subj, ev.GroundName, ev.Date), buf.String(), nil
	default:
		return "", "", errors.New("unknown event type: " + ev.Type)
	}
}

// Handle renders and sends the email for one event.  It satisfies
// queue.Handler.  Send failures are returned so the consumer rejects
// the message; the booking itself is long committed by then.
func (n *Notifier) Handle(ev queue.Event) error {
	if ev.UserEmail == "" {
		return errors.New("event has no recipient email")
	}
	subject, html, err := Render(ev)
	if err != nil {
		return err
	}
	if n.Client == nil {
		n.Log.Info().Str("type", ev.Type).Str("to", ev.UserEmail).Msg("mail disabled, dropping notification")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	message := n.Client.Email.NewMessage()
	message.SetFrom(mailersend.From{Name: n.FromName, Email: n.FromEmail})
	message.SetRecipients([]mailersend.Recipient{{Name: ev.UserName, Email: ev.UserEmail}})
	message.SetSubject(subject)
	message.SetHTML(html)

	res, err := n.Client.Email.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	n.Log.Info().
		Str("to", ev.UserEmail).
		Str("type", ev.Type).
		Str("message_id", res.Header.Get("X-Message-Id")).
		Msg("notification email sent")
	return nil
}
