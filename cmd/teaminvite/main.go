// Command teaminvite issues a team invitation from the command line and
// prints the link to share, for operators seeding teams without the web UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/charleshuang3/teamjoin/internal/config"
	"github.com/charleshuang3/teamjoin/internal/gormw"
	"github.com/charleshuang3/teamjoin/internal/invitations"
)

var (
	configPath = flag.String("c", os.Getenv("CONFIG_PATH"), "Path to configuration file")
	inviter    = flag.String("inviter", "", "User id of the team owner issuing the invitation")
	role       = flag.String("role", invitations.RoleMember, "Role granted on acceptance: member or admin")
	email      = flag.String("email", "", "Optional invitee email, display only")
)

func main() {
	flag.Parse()
	if *configPath == "" {
		log.Fatal().Msg("Config path must be provided via CONFIG_PATH env var or -c flag")
	}
	if *inviter == "" {
		log.Fatal().Msg("-inviter is required")
	}

	cfg := config.LoadConfig(*configPath)

	db, err := gormw.Open(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	inv, err := invitations.NewService(db, cfg.Invitations.Options()...).Issue(ctx, *inviter, invitations.IssueRequest{
		Email: *email,
		Role:  *role,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to issue invitation")
	}

	fmt.Printf("invitation: %s\n", inv.ID)
	fmt.Printf("token:      %s\n", inv.InvitationToken)
	fmt.Printf("expires:    %s\n", inv.ExpiresAt.Format(time.RFC3339))
	fmt.Printf("share url:  %s\n", invitations.ShareURL(cfg.Invitations.Origin, inv.LinkCode))
}
