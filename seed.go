package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dcode-github/property_marketplace/config"
	"github.com/dcode-github/property_marketplace/models"
	"github.com/dcode-github/property_marketplace/store"
	"github.com/dcode-github/property_marketplace/utils"
	"github.com/spf13/cobra"
)

var (
	seedAdmin string
	tokenTTL  time.Duration
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the six Lagos demo listings into MongoDB",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DataSource != config.SourceMongo {
			return errors.New("seed needs DATA_SOURCE=mongo")
		}
		ctx := cmd.Context()
		client, err := config.ConnectDB(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer config.CloseDB(client, logger)

		m := store.NewMongo(client.Database(cfg.DBName))
		if err := m.EnsureIndexes(ctx); err != nil {
			return err
		}

		inserted, skipped := 0, 0
		for _, p := range store.Fixture() {
			err := m.Properties.Create(ctx, &p)
			switch {
			case errors.Is(err, store.ErrDuplicate):
				skipped++
			case err != nil:
				return fmt.Errorf("seed property %s: %w", p.ID, err)
			default:
				inserted++
			}
		}
		logger.Info("catalogue seeded", "inserted", inserted, "skipped", skipped)

		if seedAdmin != "" {
			now := time.Now().UTC()
			admin := models.Profile{UserID: seedAdmin, UserType: models.UserAdmin, CreatedAt: now, UpdatedAt: now}
			if existing, err := m.Profiles.Get(ctx, seedAdmin); err == nil {
				admin = existing
				admin.UserType = models.UserAdmin
				admin.UpdatedAt = now
			}
			if err := m.Profiles.Save(ctx, &admin); err != nil {
				return fmt.Errorf("seed admin %s: %w", seedAdmin, err)
			}
			logger.Info("admin profile ready", "user_id", seedAdmin)
		}
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <userID>",
	Short: "Print a signed development token for userID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := utils.GenerateJWT([]byte(cfg.JWTKey), args[0], tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAdmin, "admin", "", "also create an admin profile for this user id")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}
