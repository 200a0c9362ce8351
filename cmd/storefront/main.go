package main

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"AspectoStore/internal/cart"
	"AspectoStore/internal/catalog"
	"AspectoStore/internal/checkout"
	"AspectoStore/internal/config"
	"AspectoStore/internal/event"
	"AspectoStore/internal/notify"
	"AspectoStore/internal/session"
	"AspectoStore/internal/storefront"
	"AspectoStore/pkg/kit"
)

func main() {
	log := kit.NewLogger("storefront")
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	carts, catalogStore, orders, err := buildStores(cfg, log)
	if err != nil {
		log.Fatal("build stores", zap.Error(err))
	}

	events := buildEvents(cfg, log)
	defer func() { _ = events.Close() }()

	h := storefront.NewHandler(storefront.Deps{
		Log:            log,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,

		Catalog: catalogStore,
		Carts:   carts,
		Orders:  orders,
		Mailer:  buildMailer(cfg, log),
		Events:  events,
		Notify:  notify.NewCenter(),

		JWT:        session.NewTokenMaker(cfg.SessionSecret),
		SessionTTL: time.Duration(cfg.SessionTTLHours) * time.Hour,

		PIX: checkout.PIXConfig{
			Key:          cfg.PIXKey,
			MerchantName: cfg.PIXMerchant,
			City:         cfg.PIXCity,
			Image:        cfg.PIXImage,
		},
		ChatPhone:    cfg.ChatPhone,
		OrderEmailTo: cfg.OrderEmailTo,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildStores(cfg *config.Config, log *zap.Logger) (cart.Store, catalog.Store, checkout.Store, error) {
	switch cfg.CartStore {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		log.Info("cart store: redis", zap.String("addr", cfg.RedisAddr))
		return cart.NewRedisStore(client), catalog.NewMemStore(), checkout.NewMemStore(), nil

	case "postgres":
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("cart store: postgres")
		return cart.NewPostgresStore(db), catalog.NewPostgresStore(db), checkout.NewPostgresStore(db), nil

	default:
		log.Info("cart store: memory")
		return cart.NewMemStore(), catalog.NewMemStore(), checkout.NewMemStore(), nil
	}
}

func buildMailer(cfg *config.Config, log *zap.Logger) checkout.Mailer {
	if cfg.EmailRelayURL == "" {
		log.Warn("email relay not configured, order emails disabled")
		return checkout.NopMailer{}
	}
	return checkout.NewRelayClient(cfg.EmailRelayURL, cfg.EmailServiceID, cfg.EmailTemplateID, cfg.EmailUserID)
}

func buildEvents(cfg *config.Config, log *zap.Logger) event.Producer {
	if len(cfg.KafkaBrokers) == 0 {
		log.Warn("kafka brokers not configured, order events disabled")
		return event.NoopProducer{}
	}
	log.Info("order events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.OrderTopic))
	return event.NewKafkaProducer(cfg.KafkaBrokers, cfg.OrderTopic)
}
