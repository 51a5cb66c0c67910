// Command blogctl runs maintenance tasks against the blog database.
//
//	blogctl [--config path] verify-user <username>
//	blogctl [--config path] backfill-source
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	mongoRepo "github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/mongo"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/config"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/platform/logger"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type userVerifier interface {
	ForceVerify(ctx context.Context, username string) (*entity.User, error)
}

type sourceBackfiller interface {
	BackfillSource(ctx context.Context) (int64, error)
}

type services struct {
	users userVerifier
	posts sourceBackfiller
}

// connectFunc opens whatever the commands need; the returned func releases it.
type connectFunc func(configPath string) (*services, func(), error)

func main() {
	if err := newRootCmd(connectMongo).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(connect connectFunc) *cobra.Command {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}

	var (
		configPath string
		timeout    time.Duration
	)

	root := &cobra.Command{
		Use:          "blogctl",
		Short:        "Maintenance tasks for the blog database",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultPath, "path to the YAML config file")
	root.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "overall command timeout")

	root.AddCommand(&cobra.Command{
		Use:   "verify-user <username>",
		Short: "Mark a pending user as verified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := connect(configPath)
			if err != nil {
				return err
			}
			defer release()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			user, err := svc.users.ForceVerify(ctx, args[0])
			if err != nil {
				return fmt.Errorf("verify-user %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s (%s) is verified\n", user.Username, user.ID)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "backfill-source",
		Short: "Set the default source on posts without one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, release, err := connect(configPath)
			if err != nil {
				return err
			}
			defer release()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			n, err := svc.posts.BackfillSource(ctx)
			if err != nil {
				return fmt.Errorf("backfill-source: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d post(s)\n", n)
			return nil
		},
	})

	return root
}

func connectMongo(configPath string) (*services, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	appLogger, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	mongoClient, err := mongoRepo.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		_ = appLogger.Sync()
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db := mongoClient.Database(cfg.Mongo.Database)
	appLogger.Debug("Connected to MongoDB", zap.String("database", cfg.Mongo.Database))

	userRepo := mongoRepo.NewUserMongoRepository(db, appLogger)
	svc := &services{
		users: usecase.NewAuthUseCase(userRepo, nil, nil, nil, nil, usecase.AuthConfig{OTPTTL: cfg.Auth.OTPTTL}, appLogger),
		posts: usecase.NewPostUseCase(mongoRepo.NewPostMongoRepository(db), userRepo, nil, nil, nil, appLogger),
	}
	release := func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Failed to disconnect from MongoDB: %v", err)
		}
		_ = appLogger.Sync()
	}
	return svc, release, nil
}
