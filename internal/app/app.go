package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"myblog/config"
	"myblog/internal/adapter/in/web"
	"myblog/internal/adapter/in/web/session"
	pubsub "myblog/internal/adapter/out/pubsub/inmemory"
	memstore "myblog/internal/adapter/out/storage/inmemory"
	pgstore "myblog/internal/adapter/out/storage/postgres"
	"myblog/internal/service"
	"myblog/pkg/clock"
	"myblog/pkg/logger"
	"myblog/pkg/password"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg  config.Config
	srv  *http.Server
	pool *pgxpool.Pool
	bus  *pubsub.CommentBus
}

type storages struct {
	users     service.UserStorage
	posts     service.PostStorage
	comments  service.CommentStorage
	trManager service.TxManager
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	var (
		st   storages
		pool *pgxpool.Pool
	)

	switch cfg.StorageType {
	case config.StoragePostgres:
		var err error
		pool, err = openPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		st = storages{
			users:     pgstore.NewUserStorage(pool, trmpgx.DefaultCtxGetter),
			posts:     pgstore.NewPostStorage(pool, trmpgx.DefaultCtxGetter),
			comments:  pgstore.NewCommentStorage(pool, trmpgx.DefaultCtxGetter),
			trManager: manager.Must(trmpgx.NewDefaultFactory(pool)),
		}

	default:
		users := memstore.NewUserStorage()
		posts := memstore.NewPostStorage(users)
		st = storages{
			users:     users,
			posts:     posts,
			comments:  memstore.NewCommentStorage(posts, users),
			trManager: memstore.NewTxManager(),
		}
	}

	bus := pubsub.New(pubsub.DefaultBuffer)
	clk := clock.NewRealClock()

	authSvc := service.NewAuthService(st.users, password.New(cfg.Password.Iterations))
	postSvc := service.NewPostService(st.posts, st.comments, st.users, st.trManager, clk)
	commentSvc := service.NewCommentService(st.comments, st.posts, st.trManager, bus)
	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.SecureCookie, clk)

	h, err := web.NewHandler(authSvc, postSvc, commentSvc, sessions)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, fmt.Errorf("web handler: %w", err)
	}

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType)
	return &App{cfg: cfg, srv: srv, pool: pool, bus: bus}, nil
}

func openPostgres(ctx context.Context, pc config.PostgresConfig) (*pgxpool.Pool, error) {
	log := logger.FromContext(ctx)

	if pc.AutoMigrate {
		if err := pgstore.MigrateUp(pc.GetDSN()); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied")
	}

	pool, err := pgxpool.New(ctx, pc.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func (a *App) Handler() http.Handler {
	return a.srv.Handler
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		// live comment streams would otherwise hold Shutdown until the deadline
		a.bus.Close()

		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := a.srv.Shutdown(shCtx)
		a.close()
		return err

	case err := <-errCh:
		a.close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) close() {
	a.bus.Close()
	if a.pool != nil {
		a.pool.Close()
	}
}
