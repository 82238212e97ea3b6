package mailer

// Config holds mailer configuration.
type Config struct {
	FallbackSubject string `env:"MAIL_FALLBACK_SUBJECT" envDefault:"Firma de correo UCN"`
	DefaultLayout   string `env:"MAIL_DEFAULT_LAYOUT"   envDefault:"base.html"`
	// BaseURL is used for links back to the editor, e.g. the instructions page.
	BaseURL string `env:"PUBLIC_URL" envDefault:"http://127.0.0.1:8088"`
}
