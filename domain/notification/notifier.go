package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/akeren/choosepure-waitlist/internal/models"
	"github.com/akeren/choosepure-waitlist/pkg/circuitbreaker"
	"github.com/akeren/choosepure-waitlist/pkg/constants"
	"github.com/akeren/choosepure-waitlist/pkg/mailer"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const (
	KindWelcome       = "welcome"
	KindAdminAlert    = "admin_alert"
	KindPasswordReset = "password_reset"
)

//go:generate mockgen -source=notifier.go -destination=mock_notifier.go -package=notification

type Notifier interface {
	// SendWelcomeEmail greets a new registrant and hands out the community link.
	SendWelcomeEmail(ctx context.Context, recipient, name, communityLink string) error
	// SendAdminAlert tells the operator about a signup. It is a no-op when no
	// admin address is configured.
	SendAdminAlert(ctx context.Context, entry *models.WaitlistEntry) error
	// SendPasswordResetEmail delivers a one-hour reset link to an admin.
	SendPasswordResetEmail(ctx context.Context, recipient, resetLink string) error
	// NotifySignup sends the welcome email and the admin alert concurrently and
	// waits for both. Failures are logged, never returned.
	NotifySignup(ctx context.Context, entry *models.WaitlistEntry, communityLink string)
}

type Config struct {
	AppName     string
	AdminEmail  string
	PhoneRegion string
}

type notifier struct {
	logger  *log.Logger
	mailer  mailer.Mailer
	breaker circuitbreaker.CircuitBreaker
	config  Config
	sent    *prometheus.CounterVec
}

// NewNotifier wraps m in a circuit breaker so a dead provider fails fast.
// reg may be nil when no metrics are wanted.
func NewNotifier(logger *log.Logger, m mailer.Mailer, config Config, reg prometheus.Registerer) Notifier {
	if config.AppName == "" {
		config.AppName = "ChoosePure"
	}
	if config.PhoneRegion == "" {
		config.PhoneRegion = "IN"
	}

	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "waitlist_notifications_total",
		Help: "Outbound notification emails by kind and outcome.",
	}, []string{"kind", "outcome"})
	if reg != nil {
		if err := reg.Register(sent); err != nil {
			logger.Warn("Notification metrics not registered", "error", err)
		}
	}

	return &notifier{
		logger: logger,
		mailer: m,
		breaker: circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{
			Name:             "mailer:" + m.Provider(),
			FailureThreshold: 5,
			RecoveryTimeout:  30 * time.Second,
			OnStateChange: func(name string, from, to circuitbreaker.CircuitState) {
				logger.Warn("Mail circuit breaker changed state", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
		config: config,
		sent:   sent,
	}
}

func (n *notifier) SendWelcomeEmail(ctx context.Context, recipient, name, communityLink string) error {
	data := welcomeData{
		AppName:       n.config.AppName,
		FirstName:     firstName(name),
		CommunityLink: communityLink,
	}

	html, err := render("welcome.html", data)
	if err != nil {
		return &NotificationError{Kind: KindWelcome, Recipient: recipient, Err: err}
	}

	text := fmt.Sprintf("Welcome to %s, %s!\n\nThank you for joining our community of parents who care about food purity.\n", data.AppName, data.FirstName)
	if communityLink != "" {
		text += "\nJoin our WhatsApp community: " + communityLink + "\n"
	}

	return n.send(ctx, KindWelcome, &mailer.Message{
		To:      mailer.Address{Name: name, Email: recipient},
		Subject: welcomeSubject,
		HTML:    html,
		Text:    text,
	})
}

func (n *notifier) SendAdminAlert(ctx context.Context, entry *models.WaitlistEntry) error {
	logger := log.GetLoggerInstanceFromContext(ctx, n.logger)

	if n.config.AdminEmail == "" {
		logger.Warn("ADMIN_EMAIL not set; skipping admin signup alert")
		n.sent.WithLabelValues(KindAdminAlert, "skipped").Inc()
		return nil
	}

	data := adminAlertData{
		Name:       entry.Name,
		Email:      entry.Email,
		Phone:      entry.Phone,
		ChatLink:   chatLink(entry.Phone, n.config.PhoneRegion),
		Pincode:    entry.Pincode,
		SignedUpAt: formatSignupTime(entry.CreatedAt, time.UTC),
	}

	html, err := render("admin_alert.html", data)
	if err != nil {
		return &NotificationError{Kind: KindAdminAlert, Recipient: n.config.AdminEmail, Err: err}
	}

	text := strings.Join([]string{
		"New Waitlist Signup",
		"Name: " + data.Name,
		"Email: " + data.Email,
		"Phone: " + data.Phone,
		"Pincode: " + data.Pincode,
		"Signed up: " + data.SignedUpAt,
	}, "\n")

	return n.send(ctx, KindAdminAlert, &mailer.Message{
		To:      mailer.Address{Email: n.config.AdminEmail},
		Subject: adminAlertSubject,
		HTML:    html,
		Text:    text,
	})
}

func (n *notifier) SendPasswordResetEmail(ctx context.Context, recipient, resetLink string) error {
	data := passwordResetData{
		AppName:   n.config.AppName,
		ResetLink: resetLink,
		ValidFor:  formatValidity(constants.PasswordResetTTL),
	}

	html, err := render("password_reset.html", data)
	if err != nil {
		return &NotificationError{Kind: KindPasswordReset, Recipient: recipient, Err: err}
	}

	return n.send(ctx, KindPasswordReset, &mailer.Message{
		To:      mailer.Address{Email: recipient},
		Subject: passwordResetSubject,
		HTML:    html,
		Text:    fmt.Sprintf("Reset your admin password (valid for %s): %s\n", data.ValidFor, resetLink),
	})
}

func (n *notifier) NotifySignup(ctx context.Context, entry *models.WaitlistEntry, communityLink string) {
	logger := log.GetLoggerInstanceFromContext(ctx, n.logger)

	// A plain Group: one failed send must not cancel the other.
	var g errgroup.Group

	g.Go(func() error {
		if err := n.SendWelcomeEmail(ctx, entry.Email, entry.Name, communityLink); err != nil {
			logger.Error("Failed to send welcome email", "error", err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := n.SendAdminAlert(ctx, entry); err != nil {
			logger.Error("Failed to send admin signup alert", "error", err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Warn("Signup notifications settled with failures", "entry_id", entry.ID)
		return
	}

	logger.Info("Signup notifications sent", "entry_id", entry.ID)
}

func (n *notifier) send(ctx context.Context, kind string, msg *mailer.Message) error {
	err := n.breaker.Call(func() error {
		return n.mailer.Send(ctx, msg)
	})
	if err != nil {
		n.sent.WithLabelValues(kind, "failed").Inc()
		return &NotificationError{Kind: kind, Recipient: msg.To.Email, Err: err}
	}

	n.sent.WithLabelValues(kind, "sent").Inc()
	return nil
}
