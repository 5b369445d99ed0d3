package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"example.com/storefront/internal/infra/persistence/mysql"
	"example.com/storefront/internal/infra/persistence/postgres"
	"example.com/storefront/internal/infra/security"
	httpapi "example.com/storefront/internal/interface/http"
	authuc "example.com/storefront/internal/usecase/auth"
	cartuc "example.com/storefront/internal/usecase/cart"
	categoryuc "example.com/storefront/internal/usecase/category"
	checkoutuc "example.com/storefront/internal/usecase/checkout"
	contactuc "example.com/storefront/internal/usecase/contact"
	dashboarduc "example.com/storefront/internal/usecase/dashboard"
	orderuc "example.com/storefront/internal/usecase/order"
	productuc "example.com/storefront/internal/usecase/product"
	reviewuc "example.com/storefront/internal/usecase/review"
	useruc "example.com/storefront/internal/usecase/user"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg, logger := a.cfg, a.logger

	storage, err := a.cartStorage(ctx)
	if err != nil {
		return err
	}
	sender, err := a.mailer()
	if err != nil {
		return err
	}

	userRepo := mysql.NewUserRepository(a.db)
	categoryRepo := mysql.NewCategoryRepository(a.db)
	productRepo := mysql.NewProductRepository(a.db)
	orderRepo := mysql.NewOrderRepository(a.db)

	tokens := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	sessions := cartuc.NewSessions(storage, logger, cfg.Cart.SaveTimeout)
	defer sessions.Close()

	healthChecks := map[string]httpapi.HealthCheck{
		"mysql": a.db.PingContext,
	}
	if a.pg != nil {
		healthChecks["postgres"] = func(ctx context.Context) error { return postgres.Ping(ctx, a.pg) }
	}

	api := httpapi.NewAPI(httpapi.Dependencies{
		AuthService:      authuc.NewService(userRepo, security.NewBcryptService(0), tokens),
		UserService:      useruc.NewService(userRepo),
		CategoryService:  categoryuc.NewService(categoryRepo),
		ProductService:   productuc.NewService(productRepo, categoryRepo),
		ReviewService:    reviewuc.NewService(mysql.NewReviewRepository(a.db), productRepo),
		CartService:      cartuc.NewService(sessions, productRepo, logger),
		CheckoutService:  checkoutuc.NewService(sessions, orderRepo, userRepo, sender, logger),
		OrderService:     orderuc.NewService(orderRepo),
		ContactService:   contactuc.NewService(mysql.NewContactRepository(a.db), sender, cfg.Mail.Inbox, logger),
		DashboardService: dashboarduc.NewService(orderRepo, userRepo, productRepo),
		TokenService:     tokens,
		HealthChecks:     healthChecks,
		Logger:           logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.Router(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("cart_storage", cfg.Cart.Storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sessions.Run(gctx, cfg.Cart.SweepInterval, cfg.Cart.IdleTimeout)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
