package di

import (
	"fmt"
	"net/http"

	drepo "ImpulseScan/internal/domain/repository"
	"ImpulseScan/internal/handler/api"
	internalrepo "ImpulseScan/internal/repository"
	"ImpulseScan/internal/service/notify"
	"ImpulseScan/internal/service/okx"
	"ImpulseScan/internal/usecase"
	"ImpulseScan/pkg/cache"
	"ImpulseScan/pkg/config"
	xhttp "ImpulseScan/pkg/http"
	pkgkafka "ImpulseScan/pkg/kafka"
	"ImpulseScan/pkg/logger"
	"ImpulseScan/pkg/metrics"
	"ImpulseScan/pkg/queue"
	"ImpulseScan/pkg/server"
	"ImpulseScan/pkg/util"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ProvideRegistry creates the registry behind /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideKafkaProducer creates a Kafka producer, or nil when no brokers are configured.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithRegisterer(reg),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideLogger creates the application logger. With log.collect enabled,
// error digests are shipped to Kafka.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*logger.Logger, func(), error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	l = l.With(logger.String("env", cfg.Environment))

	if cfg.Log.Collect.Enabled && producer != nil {
		l.AddCollector(&logger.CollectionConfig{
			TimeInterval:   cfg.Log.Collect.Interval,
			CountThreshold: cfg.Log.Collect.Threshold,
			Topic:          cfg.Log.Collect.Topic,
			Publisher:      internalrepo.NewKafkaLogPublisher(producer),
		})
	}
	return l, l.RemoveCollector, nil
}

// ProvideMetrics creates the Prometheus recorder.
func ProvideMetrics(reg *prometheus.Registry) drepo.Metrics {
	return metrics.New(reg)
}

// ProvideMarketData creates the OKX REST client.
func ProvideMarketData(cfg *config.Config, m drepo.Metrics) drepo.MarketData {
	return okx.New(cfg.Exchange.BaseURL, cfg.Exchange.Timeout, okx.WithMetrics(m))
}

// ProvideScanConfig projects the file configuration onto the scanner core.
func ProvideScanConfig(cfg *config.Config) (usecase.ScanConfig, error) {
	period, err := util.ParseBar(cfg.Scan.Bar)
	if err != nil {
		return usecase.ScanConfig{}, err
	}
	return usecase.ScanConfig{
		InstType:  cfg.Exchange.InstType,
		QuoteCcy:  cfg.Scan.QuoteCcy,
		Bar:       cfg.Scan.Bar,
		BarPeriod: period,
		TopN:      cfg.Scan.TopN,
		Threshold: cfg.Scan.Threshold,
		Delay:     cfg.Scan.Delay,
		Watchlist: cfg.Scan.Watchlist,
		LockTTL:   cfg.Scan.LockTTL,
	}, nil
}

// ProvideRedisCache connects to Redis, or returns nil when it is disabled.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, func() { _ = rc.Close() }, nil
}

// ProvideCache falls back to process memory without Redis.
func ProvideCache(rc *cache.RedisCache) cache.Service {
	if rc != nil {
		return rc
	}
	return cache.NewMemoryCache()
}

// ProvideHub creates the WebSocket broadcaster for /ws/alerts.
func ProvideHub(l *logger.Logger) (*notify.Hub, func()) {
	hub := notify.NewHub(l)
	return hub, hub.Close
}

func emailConfig(cfg *config.Config) notify.EmailConfig {
	return notify.EmailConfig{
		Host:     cfg.Notify.Email.Host,
		Port:     cfg.Notify.Email.Port,
		Username: cfg.Notify.Email.Username,
		Password: cfg.Notify.Email.Password,
		From:     cfg.Notify.Email.From,
		To:       cfg.Notify.Email.To,
		Timeout:  cfg.Notify.Email.Timeout,
	}
}

// ProvideNotifier fans alerts out to the configured channels in order.
func ProvideNotifier(
	cfg *config.Config,
	l *logger.Logger,
	m drepo.Metrics,
	hub *notify.Hub,
	producer *pkgkafka.Producer,
	rc *cache.RedisCache,
) (drepo.Notifier, error) {
	channels := make([]notify.Channel, 0, len(cfg.Notify.Channels))
	for _, name := range cfg.Notify.Channels {
		var n drepo.Notifier
		switch name {
		case "log":
			n = notify.NewLogNotifier(l)
		case "email":
			n = notify.NewEmailNotifier(emailConfig(cfg))
		case "queue":
			if rc == nil {
				return nil, fmt.Errorf("notify channel %q: redis is disabled", name)
			}
			pub, err := queue.NewRedisPublisher(l, rc.Client(), queue.WithKeyPrefix(cfg.Notify.Queue.Prefix))
			if err != nil {
				return nil, fmt.Errorf("alert queue: %w", err)
			}
			n = notify.NewQueueNotifier(pub)
		case "kafka":
			if producer == nil {
				return nil, fmt.Errorf("notify channel %q: no kafka brokers", name)
			}
			n = internalrepo.NewKafkaNotifier(producer, cfg.Notify.Kafka.Topic)
		case "websocket":
			n = hub
		default:
			return nil, fmt.Errorf("unknown notify channel %q", name)
		}
		channels = append(channels, notify.Channel{Name: name, Notifier: n})
	}
	return notify.NewMulti(m, l, channels...), nil
}

// ProvideScanner wires the resolver, sampler and notifier into the scan loop.
// The shared cache doubles as pass lock and last-report store.
func ProvideScanner(
	sc usecase.ScanConfig,
	market drepo.MarketData,
	notifier drepo.Notifier,
	m drepo.Metrics,
	c cache.Service,
	l *logger.Logger,
) *usecase.Scanner {
	return usecase.NewScanner(
		usecase.NewUniverseResolver(market, sc, l),
		usecase.NewChangeSampler(market, sc),
		notifier,
		m,
		sc,
		l,
		usecase.WithLocker(c),
		usecase.WithReportStore(c),
	)
}

// ProvideQueueConsumer creates the email alert consumer, or nil when the
// queue channel is not in use.
func ProvideQueueConsumer(cfg *config.Config, l *logger.Logger, rc *cache.RedisCache) *queue.RedisQueue {
	if rc == nil || !cfg.HasChannel("queue") {
		return nil
	}
	jobs := []queue.Job{notify.NewEmailAlertJob(notify.NewEmailNotifier(emailConfig(cfg)))}
	return queue.NewRedisConsumer(l, queue.Config{
		Workers:    cfg.Notify.Queue.Workers,
		RetryLimit: cfg.Notify.Queue.RetryLimit,
		RetryDelay: cfg.Notify.Queue.RetryDelay,
	}, rc.Client(), jobs, queue.WithKeyPrefix(cfg.Notify.Queue.Prefix))
}

// ProvideHTTPServer creates the ops server with the scan routes.
func ProvideHTTPServer(
	cfg *config.Config,
	l *logger.Logger,
	reg *prometheus.Registry,
	scanner *usecase.Scanner,
	hub *notify.Hub,
) *xhttp.Server {
	var alerts http.Handler
	if cfg.HasChannel("websocket") {
		alerts = hub
	}
	h := api.NewScanEchoHandler(l, scanner, alerts)

	return xhttp.NewServer([]xhttp.Handler{h},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithRegistry(reg),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	scanner *usecase.Scanner,
	srv *xhttp.Server,
	consumer *queue.RedisQueue,
) *server.App {
	app := server.New(cfg, l, scanner, srv)
	if consumer != nil {
		app.SetConsumer(consumer)
	}
	return app
}
