package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/passvault/cmd/app/commands"
	"github.com/allisson/passvault/internal/app"
	"github.com/allisson/passvault/internal/config"
	cryptoService "github.com/allisson/passvault/internal/crypto/service"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-pepper",
			Usage: "Generate a new server-wide pepper for password hashing and key derivation",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "Wrap the pepper with this KMS key (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreatePepper(
					ctx,
					cryptoService.NewKMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "encrypt-pepper",
			Usage: "Wrap the configured VAULT_PEPPER with a KMS key for VAULT_PEPPER_CIPHERTEXT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI, defaults to KMS_KEY_URI",
				},
				&cli.StringFlag{
					Name:  "pepper",
					Value: "",
					Usage: "Base64 pepper to wrap, defaults to VAULT_PEPPER",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				kmsKeyURI := cmd.String("kms-key-uri")
				if kmsKeyURI == "" {
					kmsKeyURI = cfg.KMSKeyURI
				}
				pepper := cmd.String("pepper")
				if pepper == "" {
					pepper = cfg.VaultPepper
				}

				return commands.RunEncryptPepper(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					pepper,
					kmsKeyURI,
				)
			},
		},
	}
}
