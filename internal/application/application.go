package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"p2p_market/internal/config"
	"p2p_market/internal/domain/service/offerbook"
	"p2p_market/internal/domain/service/offeredit"
	"p2p_market/internal/domain/value"
	"p2p_market/internal/infrastructure/notifier"
	"p2p_market/internal/infrastructure/p2p"
	"p2p_market/internal/infrastructure/persistence"
	"p2p_market/internal/infrastructure/pricefeed"
	"p2p_market/internal/server"
	tgbot "p2p_market/internal/transport/bot"
	"p2p_market/internal/worker"
	"p2p_market/pkg/application/connectors"
	"p2p_market/pkg/application/modules"
	"p2p_market/pkg/logx"
	"p2p_market/pkg/middlewarex"
)

const (
	httpShutdownTimeout = 10 * time.Second
	logFieldMaxLen      = 4096
	resultsBufferSize   = 64
	asynqConcurrency    = 4
)

func Run(ctx context.Context) error { //nolint:funlen
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	// Коннекторы
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	// Падаем на старте, если Redis недоступен: на нём живёт переподача офферов.
	rd := &connectors.Redis{
		Address:        cfg.Redis.Address,
		Password:       cfg.Redis.Password,
		DatabaseNumber: cfg.Redis.DB,
	}
	rd.Client(ctx)
	defer rd.Close(ctx)

	// Репозитории
	offerRepo := persistence.NewOpenOfferRepository(db)
	accountRepo := persistence.NewPaymentAccountRepository(db)

	// Инфраструктура
	priceFeed := pricefeed.NewClient(cfg.PriceFeed.BaseURL, cfg.PriceFeed.TTL)
	publisher := p2p.NewPublisher(cfg.Node.RelayURL, cfg.Node.RelayToken)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close() //nolint:errcheck

	scheduler := worker.NewScheduler(asynqClient, cfg.Market.RepublishInterval)

	results := make(chan offerbook.PlacementResult, resultsBufferSize)

	// Книга офферов
	manager := offerbook.NewManager(offerRepo, publisher).
		WithMaxOpenOffers(cfg.Market.MaxOpenOffers).
		WithScheduler(scheduler).
		WithResultSink(results)
	defer manager.Wait()

	builder := offeredit.NewBuilder(
		offeredit.NodeIdentity{
			NodeAddress:         cfg.Node.Address,
			PubKeyRing:          cfg.Node.PubKeyRing,
			ArbitratorAddresses: cfg.Node.ArbitratorAddresses,
			MediatorAddresses:   cfg.Node.MediatorAddresses,
			VersionNr:           cfg.Node.VersionNr,
			ProtocolVersion:     cfg.Node.ProtocolVersion,
		},
		offeredit.FeePolicy{
			TxFee:           cfg.Market.TxFeeSats,
			MakerFeePercent: cfg.Market.MakerFeePercent,
			MinMakerFee:     cfg.Market.MinMakerFeeSats,
			MaxTradeLimit:   cfg.Market.MaxTradeLimitSats,
			MaxTradePeriod:  cfg.Market.MaxTradePeriod,
		},
		cfg.Market,
	)

	cloneService := offeredit.NewService(offeredit.SessionContext{
		Currencies: value.NewCurrencyRegistry(),
		Accounts:   accountRepo,
		Deposits:   cfg.Market,
		Builder:    builder,
		OfferBook:  manager,
		PriceFeed:  priceFeed,
	}, manager)

	// HTTP API
	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.UserID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.Metrics,
		middlewarex.RequestLogging(logx.NewSensitiveDataMasker(), logFieldMaxLen),
		middlewarex.ResponseLogging(logx.NewSensitiveDataMasker(), logFieldMaxLen),
	)
	server.NewServer(server.NewOfferServer(cloneService)).RegisterRoutes(router)

	modules.HTTPServer{ShutdownTimeout: httpShutdownTimeout}.Run(ctx, g, &http.Server{ //nolint:exhaustruct
		Addr:    cfg.HTTP.ListenAddress,
		Handler: router,
	})

	// Воркер переподачи офферов
	republisher := worker.NewRepublisher(offerRepo, publisher, priceFeed, scheduler)

	modules.AsynqServer{
		RedisAddress:  cfg.Redis.Address,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		Concurrency:   asynqConcurrency,
	}.Run(ctx, g,
		modules.AsynqQueues{worker.QueueOffers: 1},
		modules.AsynqHandler{Pattern: worker.TypeOfferRepublish, Handle: republisher.HandleRepublish},
	)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.HTTP.MetricListenAddress}.Run(ctx, g)

	// Телеграм: уведомления о размещениях и админ-бот
	if cfg.Bot.Enabled() {
		if err := runTelegram(ctx, g, cfg, cloneService, results); err != nil {
			return err
		}
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

func runTelegram(
	ctx context.Context,
	g *errgroup.Group,
	cfg config.Config,
	cloneService *offeredit.Service,
	results <-chan offerbook.PlacementResult,
) error {
	alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
	if err != nil {
		return fmt.Errorf("notifier.NewTelegramBot: %w", err)
	}

	g.Go(func() error {
		if err := alertBot.Run(ctx, results); err != nil && ctx.Err() == nil {
			return fmt.Errorf("alertBot.Run: %w", err)
		}

		return nil
	})

	adminBot, err := tgbot.New(cfg, cloneService)
	if err != nil {
		return fmt.Errorf("bot.New: %w", err)
	}

	g.Go(func() error {
		if err := adminBot.Run(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("adminBot.Run: %w", err)
		}

		return nil
	})

	return nil
}
