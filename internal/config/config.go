package config

import "github.com/caarlos0/env/v11"

// Config is loaded from the environment at startup. Defaults suit local
// development; production deployments override everything sensitive.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	RabbitUser string `env:"RABBITMQ_USER" envDefault:"guest"`
	RabbitPass string `env:"RABBITMQ_PASS" envDefault:"guest"`
	RabbitHost string `env:"RABBITMQ_HOST" envDefault:"localhost"`
	RabbitPort string `env:"RABBITMQ_PORT" envDefault:"5672"`

	MailHost string `env:"MAIL_HOST"`
	MailPort int    `env:"MAIL_PORT" envDefault:"587"`
	MailUser string `env:"MAIL_USER"`
	MailPass string `env:"MAIL_PASS"`
	MailFrom string `env:"MAIL_FROM" envDefault:"no-reply@satiscrm.io"`

	AuthGatewayURL string `env:"AUTH_GATEWAY_URL"`
	AuthGatewayKey string `env:"AUTH_GATEWAY_KEY"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}
