package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz"
	"github.com/muratcankoptayyy/tevkil-platform/internal/conf"
	"github.com/muratcankoptayyy/tevkil-platform/internal/data"
)

// loadConfig reads .env when present and the environment
func loadConfig() *conf.Config {
	_ = godotenv.Load()
	return conf.LoadFromEnv()
}

// openStore opens and migrates the configured database
func openStore(ctx context.Context, cfg *conf.Config) (*data.Store, error) {
	store, err := data.OpenStore(cfg.Database.URL, cfg.Database.DBPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return store, nil
}

// openUsecases builds the full bot stack against the configured database
func openUsecases(ctx context.Context, cfg *conf.Config) (*biz.Usecases, *data.Repositories, error) {
	repos, err := data.NewRepositories(cfg.ToDataOptions())
	if err != nil {
		return nil, nil, err
	}
	if err := repos.Store.Migrate(ctx); err != nil {
		repos.Close()
		return nil, nil, fmt.Errorf("failed to migrate: %w", err)
	}

	ucs := biz.NewUsecases(biz.Repos{
		Accounts:     repos.Accounts,
		Listings:     repos.Listings,
		Applications: repos.Applications,
		Proposals:    repos.Proposals,
		AI:           repos.AI,
		Messages:     repos.Messages,
		SMS:          repos.SMS,
		Events:       repos.Events,
	}, cfg.ToBotConfig())
	return ucs, repos, nil
}
