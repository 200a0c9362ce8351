package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds every knob of the storefront binary, read from environment
// variables.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsToken   string `env:"METRICS_TOKEN"`

	SessionSecret   string `env:"SESSION_SECRET" envDefault:"dev-secret"`
	SessionTTLHours int    `env:"SESSION_TTL_HOURS" envDefault:"720"`

	// CartStore selects the cart backend: memory, redis or postgres.
	CartStore   string `env:"CART_STORE" envDefault:"memory"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	DatabaseURL string `env:"DATABASE_URL"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	OrderTopic   string   `env:"ORDER_TOPIC" envDefault:"storefront.order.completed"`

	EmailRelayURL   string `env:"EMAIL_RELAY_URL"`
	EmailServiceID  string `env:"EMAIL_SERVICE_ID"`
	EmailTemplateID string `env:"EMAIL_TEMPLATE_ID"`
	EmailUserID     string `env:"EMAIL_USER_ID"`
	OrderEmailTo    string `env:"ORDER_EMAIL_TO" envDefault:"pedidos@supaspecto.com.br"`

	ChatPhone string `env:"CHAT_PHONE" envDefault:"5511999999999"`

	PIXKey      string `env:"PIX_KEY" envDefault:"pix@supaspecto.com.br"`
	PIXMerchant string `env:"PIX_MERCHANT" envDefault:"SUP ASPECTO"`
	PIXCity     string `env:"PIX_CITY" envDefault:"SAO PAULO"`
	PIXImage    string `env:"PIX_IMAGE" envDefault:"assets/images/pix_qr.png"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
