package config

// MailConfig contains outbound mail settings.
type MailConfig struct {
	// InboxAddress receives staff notifications for new contact inquiries.
	InboxAddress string `env:"INBOX_ADDRESS" envDefault:"info@gidzunipath.lk"`

	// FromAddress is the sender on applicant-facing mail.
	FromAddress string `env:"FROM_ADDRESS" envDefault:"no-reply@gidzunipath.lk"`
}
