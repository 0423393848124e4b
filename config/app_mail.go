package config

import (
	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/akeren/choosepure-waitlist/pkg/mailer"
	"github.com/akeren/choosepure-waitlist/pkg/utils"
)

func NewMailConfigFromEnv() *mailer.Config {
	return &mailer.Config{
		Provider: utils.GetEnvTrimmed("EMAIL_PROVIDER"),
		From: mailer.Address{
			Name:  utils.GetEnvTrimmedOrDefault("EMAIL_FROM_NAME", "ChoosePure"),
			Email: utils.GetEnvTrimmedOrDefault("EMAIL_FROM_ADDRESS", "no-reply@choosepure.in"),
		},
		SendGridAPIKey: secretEnv("SENDGRID_API_KEY"),
		SMTPHost:       utils.GetEnvTrimmed("SMTP_HOST"),
		SMTPPort:       utils.GetEnvTrimmedOrDefault("SMTP_PORT", "587"),
		SMTPUsername:   utils.GetEnvTrimmed("SMTP_USERNAME"),
		SMTPPassword:   secretEnv("SMTP_PASSWORD"),
	}
}

func NewMailer(logger *log.Logger, cfg *mailer.Config) (mailer.Mailer, error) {
	m, err := mailer.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to configure email provider", "error", err)
		return nil, err
	}

	if m.Provider() == mailer.ProviderLog {
		logger.Warn("No email provider configured; emails will only be logged")
	} else {
		logger.Info("Email provider configured", "provider", m.Provider(), "from", cfg.From.Email)
	}

	return m, nil
}
