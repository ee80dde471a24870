package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pamlee/go-storefront/internal/channel"
	"github.com/pamlee/go-storefront/internal/config"
	"github.com/pamlee/go-storefront/internal/httpx"
	"github.com/pamlee/go-storefront/internal/orders"
	"github.com/pamlee/go-storefront/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, rdb := newStore(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	ch := channel.New(ctx, rdb, st, cfg.ChannelName)
	defer ch.Close()

	var opts []orders.LogOption
	if len(cfg.AllowedStatuses) > 0 {
		opts = append(opts, orders.WithAllowedStatuses(cfg.AllowedStatuses...))
	}
	orderLog := orders.NewLog(st, ch, opts...)

	// console trail of live order activity, like the admin tab's toasts
	unsub, err := orders.Listen(ch, func(ev orders.Event) {
		switch ev.Type {
		case orders.EventNewOrder:
			log.Info().Str("tracker_id", ev.Order.TrackerID).Int("total_cents", ev.Order.TotalCents).Msg("new order")
		case orders.EventUpdateOrder:
			log.Info().Str("tracker_id", ev.TrackerID).Str("status", ev.Status).Msg("order status changed")
		}
	})
	if err != nil {
		log.Warn().Err(err).Msg("event listen unavailable")
	} else {
		defer unsub()
	}

	router := httpx.NewRouter()
	ah := &httpx.AdminHandler{Log: orderLog, Channel: ch}
	ah.Register(router)

	srv := &http.Server{Addr: cfg.AdminAddr, Handler: router}

	go func() {
		log.Info().Str("addr", cfg.AdminAddr).Msg("admin listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
}

func newStore(ctx context.Context, cfg config.Config) (store.Store, *redis.Client) {
	switch cfg.StoreBackend {
	case "memory":
		log.Warn().Msg("memory store selected, nothing survives a restart")
		return store.NewMem(), nil
	case "postgres":
		pg, err := store.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect")
		}
		return pg, nil
	default:
		rdb := store.NewRedisClient(cfg.RedisAddr)
		return store.NewRedis(rdb), rdb
	}
}
