package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/config"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/database"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/events"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/logger"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/services"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/rs/zerolog/log"
)

const usage = "Usage: promote-admin <email> [--demote | --disable | --enable]"

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Println(usage)
		os.Exit(1)
	}

	email := os.Args[1]
	action := ""
	if len(os.Args) == 3 {
		action = os.Args[2]
	}
	switch action {
	case "", "--demote", "--disable", "--enable":
	default:
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel, false)

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	var event dto.SessionEvent
	switch action {
	case "--disable", "--enable":
		event = setDisabled(ctx, db, email, action == "--disable")
	default:
		role := identity.RoleAdmin
		if action == "--demote" {
			role = identity.RoleUser
		}
		userID, err := services.NewRoleService(db).SetRoleByEmail(ctx, email, role)
		if errors.Is(err, services.ErrUserNotFound) {
			log.Fatal().Str("email", email).Msg("no user found with that e-mail")
		}
		if err != nil {
			log.Fatal().Err(err).Msg("failed to update role")
		}
		fmt.Printf("Successfully set role of %s to %s\n", email, role.Label())
		event = dto.SessionEvent{Type: dto.EventRoleChanged, UserID: userID, Role: role}
	}

	if event.Type != "" {
		notify(ctx, cfg, event)
	}
}

// setDisabled blocks or unblocks sign-in. Blocking also revokes every refresh
// token so open sessions end at the next refresh.
func setDisabled(ctx context.Context, db *database.DB, email string, disabled bool) dto.SessionEvent {
	users := services.NewUserService(db)

	user, err := users.GetByEmail(ctx, email)
	if errors.Is(err, services.ErrUserNotFound) {
		log.Fatal().Str("email", email).Msg("no user found with that e-mail")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load user")
	}

	if err := users.SetDisabled(ctx, user.ID, disabled); err != nil {
		log.Fatal().Err(err).Msg("failed to update user")
	}

	if !disabled {
		fmt.Printf("Successfully enabled %s\n", email)
		return dto.SessionEvent{}
	}

	if err := services.NewTokenService(db).RevokeAllUserTokens(ctx, user.ID); err != nil {
		log.Fatal().Err(err).Msg("user disabled but refresh tokens were not revoked")
	}
	fmt.Printf("Successfully disabled %s\n", email)
	return dto.SessionEvent{Type: dto.EventRevoked, UserID: user.ID}
}

// notify tells running API instances about the change. Without Redis they
// pick it up on the next role fetch or token refresh.
func notify(ctx context.Context, cfg *config.Config, event dto.SessionEvent) {
	if !cfg.Redis.Enabled() {
		return
	}

	rdb, err := events.Connect(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		log.Warn().Err(err).Msg("change saved but live sessions were not notified")
		return
	}
	defer rdb.Close()

	bridge := events.NewRedisBridge(rdb, cfg.Redis.Channel, nil)
	if err := bridge.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Msg("change saved but live sessions were not notified")
	}
}
