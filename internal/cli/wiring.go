package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"waybackhome/internal/config"
	"waybackhome/internal/infrastructure/database"
	"waybackhome/internal/infrastructure/identity"
	"waybackhome/internal/infrastructure/memory"
	"waybackhome/internal/ports/output"
)

// stores groups the repositories of one backend.
type stores struct {
	events       output.EventRepository
	participants output.ParticipantRepository
	admins       output.AdminProvisioner
	close        func()
}

func openStores(ctx context.Context, c *config.Config) (*stores, error) {
	switch c.StoreDriver {
	case config.StoreMemory:
		events := memory.NewEventRepository()
		log.Warn().Msg("using in-memory stores, data is lost on restart")
		return &stores{
			events:       events,
			participants: memory.NewParticipantRepository(events),
			admins:       memory.NewAdminDirectory(),
			close:        func() {},
		}, nil
	case config.StorePostgres:
		if c.MigrateOnStart {
			if err := database.RunMigrations(c.DatabaseURL); err != nil {
				return nil, err
			}
		}
		pool, err := database.NewPool(ctx, c.DatabaseURL, c.DatabaseMaxConns, c.DatabaseConnectTimeout)
		if err != nil {
			return nil, err
		}
		return &stores{
			events:       database.NewEventRepository(pool),
			participants: database.NewParticipantRepository(pool),
			admins:       database.NewAdminRepository(pool),
			close:        pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", c.StoreDriver)
}

// openPostgresStores is for maintenance commands that need durable state.
func openPostgresStores(ctx context.Context, c *config.Config) (*stores, error) {
	if c.StoreDriver != config.StorePostgres {
		return nil, errors.New("this command needs STORE_DRIVER=postgres")
	}
	return openStores(ctx, c)
}

// openRevocationList returns the Redis-backed list when enabled and a
// process-local one otherwise.
func openRevocationList(ctx context.Context, c *config.Config) (output.RevocationList, func(), error) {
	if !c.RedisEnabled {
		return memory.NewRevocationList(), func() {}, nil
	}
	client, err := identity.NewRedisClient(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}
	return identity.NewRedisRevocationList(client, c.RevokedTokensKey), closeFn, nil
}
