// cmd/gigdial/app.go
package main

import (
	"context"
	"fmt"
	"time"

	"gigdial/internal/common/auth"
	"gigdial/internal/common/aws"
	"gigdial/internal/common/backend"
	"gigdial/internal/common/camunda"
	"gigdial/internal/common/config"
	"gigdial/internal/common/database"
	httpclient "gigdial/internal/common/http"
	"gigdial/internal/common/logger"
	"gigdial/internal/common/validation"
	"gigdial/internal/scheduler"
	"gigdial/internal/server"
	registeruser "gigdial/internal/workers/accounts/register-user"
	bookingintent "gigdial/internal/workers/booking/booking-intent"
	sendcontactmessage "gigdial/internal/workers/booking/send-contact-message"
	aggregategigrows "gigdial/internal/workers/catalog/aggregate-gig-rows"
	classifycategory "gigdial/internal/workers/catalog/classify-category"
	searchgigs "gigdial/internal/workers/catalog/search-gigs"
	getworkerprofile "gigdial/internal/workers/directory/get-worker-profile"
	listapprovedworkers "gigdial/internal/workers/directory/list-approved-workers"
	listcities "gigdial/internal/workers/locations/list-cities"
	"gigdial/pkg/registry"
)

// app holds every long-lived dependency built from config.
type app struct {
	cfg    *config.Config
	logger logger.Logger

	redis    *database.RedisClient
	postgres *database.PostgresClient
	search   *database.ElasticsearchClient

	gigs     *backend.CachedGigSource
	schemas  *validation.Registry
	resolver *auth.Resolver
	handlers server.Handlers
}

// retryWithBackoff runs operation until it succeeds, doubling the delay after
// each failure.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if i == maxRetries-1 {
			break
		}
		log.Warn(fmt.Sprintf("%s failed, retrying", operationName), map[string]interface{}{
			"error":       err,
			"attempt":     i + 1,
			"maxRetries":  maxRetries,
			"nextRetryIn": delay.String(),
		})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func buildApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: log}

	if err := a.connectStores(ctx); err != nil {
		a.Close()
		return nil, err
	}

	classifier, err := registry.Classifier(cfg.Catalog.RulesFile)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load category rules: %w", err)
	}
	policy, err := classifycategory.ParsePolicy(cfg.Catalog.UnmatchedPolicy)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.schemas, err = validation.NewRegistry()
	if err != nil {
		a.Close()
		return nil, err
	}

	upstream := backend.NewClient(httpclient.NewClient(cfg.Upstream.BaseURL, config.GetDuration(cfg.Upstream.Timeout)))
	a.gigs = backend.NewCachedGigSource(upstream, a.redis, config.GetDuration(cfg.Catalog.CacheTTL), log)

	keycloak := auth.NewKeycloakClient(
		cfg.Auth.Keycloak.URL,
		cfg.Auth.Keycloak.Realm,
		cfg.Auth.Keycloak.ClientID,
		cfg.Auth.Keycloak.ClientSecret,
		config.GetDuration(cfg.Upstream.Timeout),
	)
	a.resolver = auth.NewResolver(keycloak, a.redis, config.GetDuration(cfg.Auth.SessionCacheTTL), log)

	deps, err := a.notificationDeps(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	placeholder := cfg.Catalog.PlaceholderImage

	rowsCfg := &aggregategigrows.Config{
		Timeout:          a.workerTimeout(aggregategigrows.TaskType),
		PlaceholderImage: placeholder,
		UnmatchedPolicy:  policy,
	}
	a.handlers.Rows = aggregategigrows.NewHandler(rowsCfg,
		aggregategigrows.NewAggregator(classifier, policy, placeholder), a.gigs, log)

	a.handlers.Classify = classifycategory.NewHandler(&classifycategory.Config{
		Timeout:         a.workerTimeout(classifycategory.TaskType),
		UnmatchedPolicy: policy,
	}, classifier, log)

	searchCfg := searchgigs.LoadConfig()
	searchCfg.Timeout = a.workerTimeout(searchgigs.TaskType)
	searchCfg.Index = cfg.Catalog.GigIndex
	searchCfg.PlaceholderImage = placeholder
	searchCfg.UnmatchedPolicy = policy
	var index searchgigs.SearchIndex
	if a.search != nil {
		index = a.search
	}
	a.handlers.Search = searchgigs.NewHandler(searchCfg, index, a.gigs, classifier, log)

	a.handlers.Workers = listapprovedworkers.NewHandler(&listapprovedworkers.Config{
		Timeout: a.workerTimeout(listapprovedworkers.TaskType),
	}, upstream, log)

	a.handlers.Profile = getworkerprofile.NewHandler(&getworkerprofile.Config{
		Timeout:          a.workerTimeout(getworkerprofile.TaskType),
		PlaceholderImage: placeholder,
	}, upstream, log)

	intentCfg := &bookingintent.Config{
		Timeout:   a.workerTimeout(bookingintent.TaskType),
		IntentTTL: config.GetDuration(cfg.Booking.IntentTTL),
		LoginPath: cfg.Booking.LoginPath,
	}
	store := bookingintent.NewRedisStore(a.redis, intentCfg.IntentTTL)
	a.handlers.Intents = bookingintent.NewHandler(intentCfg, store, upstream, log)
	deps.Intents = a.handlers.Intents

	msgCfg := sendcontactmessage.LoadConfig()
	msgCfg.Timeout = a.workerTimeout(sendcontactmessage.TaskType)
	msgCfg.LoginPath = cfg.Booking.LoginPath
	a.handlers.Messages = sendcontactmessage.NewHandler(msgCfg, upstream, a.schemas, deps, log)

	a.handlers.Register = registeruser.NewHandler(&registeruser.Config{
		Timeout: a.workerTimeout(registeruser.TaskType),
	}, upstream, a.schemas, log)

	a.handlers.Cities = listcities.NewHandler(&listcities.Config{
		Timeout: a.workerTimeout(listcities.TaskType),
	}, upstream, log)

	log.Info("application wired", map[string]interface{}{
		"unmatchedPolicy": policy,
		"rulesFile":       cfg.Catalog.RulesFile,
		"postgres":        a.postgres != nil,
		"elasticsearch":   a.search != nil,
		"email":           deps.Email != nil,
		"events":          deps.Events != nil,
	})
	return a, nil
}

// connectStores opens Redis (required), Postgres (when a host is set) and
// Elasticsearch (when an address is set). An unreachable Elasticsearch only
// disables indexed search.
func (a *app) connectStores(ctx context.Context) error {
	cfg := a.cfg

	err := retryWithBackoff(ctx, func() error {
		r, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return err
		}
		a.redis = r
		return nil
	}, 10, 2*time.Second, a.logger, "redis connection")
	if err != nil {
		return err
	}
	a.logger.Info("redis connected", map[string]interface{}{"address": cfg.Database.Redis.Address})

	if cfg.Database.Postgres.Host != "" {
		err := retryWithBackoff(ctx, func() error {
			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				_ = pg.Close()
				return err
			}
			a.postgres = pg
			return nil
		}, 15, 2*time.Second, a.logger, "postgres connection")
		if err != nil {
			return err
		}
		if err := a.postgres.Migrate(ctx); err != nil {
			return err
		}
		a.logger.Info("postgres connected", map[string]interface{}{"database": cfg.Database.Postgres.Database})
	}

	if cfg.Database.Elasticsearch.GetURL() != "" {
		err := retryWithBackoff(ctx, func() error {
			es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			if err := es.Ping(ctx); err != nil {
				return err
			}
			a.search = es
			return nil
		}, 5, 2*time.Second, a.logger, "elasticsearch connection")
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.logger.Warn("elasticsearch unavailable, search will use the gig list", map[string]interface{}{
				"error": err,
			})
		} else {
			a.logger.Info("elasticsearch connected", map[string]interface{}{"url": cfg.Database.Elasticsearch.GetURL()})
		}
	}
	return nil
}

func (a *app) notificationDeps(ctx context.Context) (sendcontactmessage.Deps, error) {
	n := a.cfg.Notifications
	deps := sendcontactmessage.Deps{DB: a.postgres}
	if !n.Email.Enabled && !n.Events.Enabled {
		return deps, nil
	}

	awsCfg, err := aws.LoadConfig(ctx, n.AWS.Region)
	if err != nil {
		return deps, fmt.Errorf("load aws config: %w", err)
	}
	if n.Email.Enabled {
		deps.Email = aws.NewSESClient(awsCfg, n.Email.FromEmail)
	}
	if n.Events.Enabled {
		deps.Events = aws.NewSNSClient(awsCfg, n.Events.TopicARN)
	}
	return deps, nil
}

func (a *app) workerTimeout(taskType string) time.Duration {
	return config.GetDuration(config.GetWorkerConfig(a.cfg, taskType).Timeout)
}

// indexer returns the search handler when an index is connected.
func (a *app) indexer() scheduler.Indexer {
	if a.search == nil {
		return nil
	}
	return a.handlers.Search
}

func (a *app) newScheduler() (*scheduler.Scheduler, error) {
	return scheduler.New(a.cfg.Catalog.RefreshSchedule, a.gigs, a.indexer(),
		config.GetDuration(a.cfg.Upstream.Timeout)*3, a.logger)
}

// checks returns the readiness probes for the connected stores.
func (a *app) checks() map[string]server.Check {
	checks := map[string]server.Check{"redis": a.redis.Ping}
	if a.postgres != nil {
		checks["postgres"] = a.postgres.Ping
	}
	if a.search != nil {
		checks["elasticsearch"] = a.search.Ping
	}
	return checks
}

// registrations lists the enabled Zeebe job workers.
func (a *app) registrations() []camunda.Registration {
	h := a.handlers
	all := []struct {
		taskType string
		handler  camunda.JobHandler
	}{
		{classifycategory.TaskType, h.Classify},
		{aggregategigrows.TaskType, h.Rows},
		{searchgigs.TaskType, h.Search},
		{listapprovedworkers.TaskType, h.Workers},
		{getworkerprofile.TaskType, h.Profile},
		{bookingintent.TaskType, h.Intents},
		{sendcontactmessage.TaskType, h.Messages},
		{registeruser.TaskType, h.Register},
		{listcities.TaskType, h.Cities},
	}

	regs := make([]camunda.Registration, 0, len(all))
	for _, w := range all {
		if !config.IsWorkerEnabled(a.cfg, w.taskType) {
			a.logger.Info("worker disabled", map[string]interface{}{"taskType": w.taskType})
			continue
		}
		wc := config.GetWorkerConfig(a.cfg, w.taskType)
		regs = append(regs, camunda.Registration{
			TaskType:      w.taskType,
			MaxJobsActive: wc.MaxJobsActive,
			Timeout:       config.GetDuration(wc.Timeout),
			Handler:       w.handler,
		})
	}
	return regs
}

// startWorkers connects to Zeebe and opens every enabled job worker.
func (a *app) startWorkers(ctx context.Context) (*camunda.Client, *camunda.WorkerPool, error) {
	client, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         a.cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(a.cfg.Camunda.RequestTimeout),
	})
	if err != nil {
		return nil, nil, err
	}

	pool := camunda.NewWorkerPool(client.Zeebe(), a.logger)
	for _, r := range a.registrations() {
		pool.Register(r)
	}
	a.logger.Info("zeebe workers registered", map[string]interface{}{
		"taskTypes": pool.TaskTypes(),
		"broker":    a.cfg.Camunda.BrokerAddress,
	})
	return client, pool, nil
}

func (a *app) Close() {
	if a.postgres != nil {
		if err := a.postgres.Close(); err != nil {
			a.logger.Warn("postgres close failed", map[string]interface{}{"error": err})
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("redis close failed", map[string]interface{}{"error": err})
		}
	}
}
