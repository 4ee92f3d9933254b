package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/leetarena/arena/internal/api/admin"
	"github.com/leetarena/arena/internal/api/user"
	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/auth"
	"github.com/leetarena/arena/internal/cache"
	"github.com/leetarena/arena/internal/config"
	"github.com/leetarena/arena/internal/contest"
	"github.com/leetarena/arena/internal/database"
	"github.com/leetarena/arena/internal/database/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var Version = "dev-build"

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if env := os.Getenv("ARENA_CONFIG"); env != "" && !cmd.Flags().Changed("config") {
		configPath = env
	}
	return config.Load(configPath)
}

func newLogger(cfg config.Logger) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Level == "debug" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		if cfg.Level != "" {
			level, err := zap.ParseAtomicLevel(cfg.Level)
			if err != nil {
				return nil, err
			}
			zc.Level = level
		}
	}
	if cfg.File != "" {
		zc.OutputPaths = append(zc.OutputPaths, cfg.File)
	}
	return zc.Build()
}

// setup loads the config and installs the global logger.
func setup(cmd *cobra.Command) (*config.Config, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("can't initialize zap logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return cfg, func() { _ = logger.Sync() }, nil
}

func serveMain(cmd *cobra.Command, _ []string) error {
	cfg, flush, err := setup(cmd)
	if err != nil {
		return err
	}
	defer flush()

	fmt.Fprintf(os.Stderr, "Arena %s - contest engine\n\n", Version)

	if cfg.Logger.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// database
	db, err := database.Init(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	zap.S().Infof("database initialized successfully (%s)", cfg.Storage.Driver)

	// leaderboard cache
	leaderboardCache, err := cache.New(cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard cache: %w", err)
	}
	if closer, ok := leaderboardCache.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	engine := contest.NewEngine(db, contest.NewDBCatalog(db),
		contest.WithCache(leaderboardCache),
		contest.WithPageSizes(cfg.Contest.DefaultPageSize, cfg.Contest.MaxPageSize))

	servers := []*http.Server{{
		Addr:              cfg.Listen,
		Handler:           user.NewUserRouter(cfg, db, engine),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if cfg.Admin.Enabled {
		servers = append(servers, &http.Server{
			Addr:              cfg.Admin.Listen,
			Handler:           admin.NewAdminRouter(cfg, db, engine),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			zap.S().Infof("starting server at %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server at %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	// graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		zap.S().Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.S().Errorf("failed to shut down server at %s: %v", srv.Addr, err)
			}
		}
		return nil
	})
	return g.Wait()
}

func migrateMain(cmd *cobra.Command, _ []string) error {
	cfg, flush, err := setup(cmd)
	if err != nil {
		return err
	}
	defer flush()

	db, err := database.Init(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	zap.S().Info("database migrated successfully")

	username, _ := cmd.Flags().GetString("admin-user")
	password, _ := cmd.Flags().GetString("admin-password")
	if username == "" {
		return nil
	}
	if password == "" {
		return errors.New("--admin-password is required with --admin-user")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	adminUser := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Nickname:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	ctx := cmd.Context()
	if err := database.CreateUser(db.WithContext(ctx), adminUser); err != nil {
		if apperr.CodeOf(err) != apperr.CodeDuplicate {
			return err
		}
		existing, err := database.GetUserByUsername(db.WithContext(ctx), username)
		if err != nil {
			return err
		}
		if err := database.UpdateUserRole(db.WithContext(ctx), existing.ID, models.RoleAdmin); err != nil {
			return err
		}
		zap.S().Infof("promoted existing user %s to admin", username)
		return nil
	}
	zap.S().Infof("created admin user %s (%s)", username, adminUser.ID)
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "arena",
		Short:        "Timed programming contests: admission, scoring and leaderboards",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "configs/config.yaml", "path to config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the user API server and, if enabled, the admin API server",
		RunE:  serveMain,
	}
	rootCmd.AddCommand(serveCmd)
	rootCmd.RunE = serveMain

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Applies schema migrations to the database",
		RunE:  migrateMain,
	}
	migrateCmd.Flags().String("admin-user", "", "create (or promote) an admin user with this username")
	migrateCmd.Flags().String("admin-password", "", "password for --admin-user")
	rootCmd.AddCommand(migrateCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Prints information about version",
		Run: func(*cobra.Command, []string) {
			fmt.Println("arena version:", Version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
