package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/josebdo/Cristal-Event-Planner/app/authz"
	"github.com/josebdo/Cristal-Event-Planner/app/configs"
	"github.com/josebdo/Cristal-Event-Planner/app/db/seeders"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/models/migrations"
	"github.com/josebdo/Cristal-Event-Planner/app/repositories"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// RunCli runs the command named in args. Without one it starts the server.
func RunCli(ctx context.Context, cfg *configs.Config, args []string) error {
	cmd := &cli.Command{
		Name:  "cristal",
		Usage: "Storefront and back office",
		Action: func(ctx context.Context, c *cli.Command) error {
			return Serve(ctx, cfg)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return Serve(ctx, cfg)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(*cfg)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					zap.S().Info("Migration complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate session, token and service keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "also write the keys to this file", Value: ".env.new_keys"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					keys, err := configs.GenerateKeys()
					if err != nil {
						return err
					}
					if err := keys.WriteEnv(os.Stdout); err != nil {
						return err
					}
					if out := c.String("out"); out != "" {
						if err := keys.WriteEnvFile(out); err != nil {
							return err
						}
						fmt.Fprintf(os.Stderr, "Keys written to %s. Copy them into your .env file.\n", out)
					}
					return nil
				},
			},
			{
				Name:  "seed-settings",
				Usage: "Create missing site settings with their default values",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "demo", Usage: "also add a demo catalog when there are no products"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(*cfg)
					if err != nil {
						return err
					}
					return seeders.DBSeed(ctx, db, c.Bool("demo"))
				},
			},
			{
				Name:  "create-superadmin",
				Usage: "Create the first superadmin account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return createSuperadmin(ctx, cfg, c.String("email"), c.String("password"))
				},
			},
		},
	}

	return cmd.Run(ctx, args)
}

func createSuperadmin(ctx context.Context, cfg *configs.Config, email, password string) error {
	db, err := configs.OpenConnection(*cfg)
	if err != nil {
		return err
	}

	admin, err := services.NewIdentityAdmin(cfg.ServiceRoleKey, repositories.NewAuthUserRepository(db), repositories.NewUserRepository(db))
	if err != nil {
		if errors.Is(err, services.ErrServiceKeyMissing) {
			return fmt.Errorf("SERVICE_ROLE_KEY is not set; run generate-keys first: %w", err)
		}
		return err
	}

	// The CLI acts with the operator's authority.
	operator := authz.AuthContext{
		Principal: &models.AuthUser{ID: "cli", Email: "cli"},
		Role:      authz.RoleSuperadmin,
	}
	user, err := services.NewUserService(admin, validator.New()).Create(ctx, operator, services.UserInput{
		Email:    email,
		Password: password,
		Role:     authz.RoleSuperadmin.String(),
	})
	if err != nil {
		return err
	}
	zap.S().Infow("Superadmin created", "user_id", user.ID, "email", user.Email)
	return nil
}
