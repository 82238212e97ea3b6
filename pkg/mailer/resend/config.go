package resend

// Config holds Resend credentials and the default sender.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"MAIL_SENDER_EMAIL" envDefault:"firmas@ucn.cl"`
	SenderName  string `env:"MAIL_SENDER_NAME"  envDefault:"Firmas UCN"`
}

// Enabled reports whether an API key is configured.
func (c Config) Enabled() bool {
	return c.APIKey != ""
}
