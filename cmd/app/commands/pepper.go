package commands

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
	cryptoService "github.com/allisson/passvault/internal/crypto/service"
)

// pepperSize is the length in bytes of generated peppers.
const pepperSize = 32

// RunCreatePepper generates a cryptographically secure 32-byte pepper.
//
// Without kmsKeyURI the pepper is printed as VAULT_PEPPER. With kmsKeyURI it is wrapped
// by the KMS key and printed as VAULT_PEPPER_CIPHERTEXT so the plaintext never reaches
// the environment. The pepper is zeroed from memory after encoding.
//
// Security: losing the pepper makes every stored credential and vault item unrecoverable.
// Never use base64key:// (localsecrets) in production.
func RunCreatePepper(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	pepper := make(cryptoDomain.Pepper, pepperSize)
	if _, err := rand.Read(pepper); err != nil {
		return fmt.Errorf("failed to generate pepper: %w", err)
	}
	defer pepper.Zero()

	if kmsKeyURI == "" {
		logger.Warn("printing plaintext pepper, prefer --kms-key-uri outside development")
		_, _ = fmt.Fprintln(writer, "# Pepper Configuration (plaintext)")
		_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "VAULT_PEPPER=\"%s\"\n", pepper.Encoded())
		return nil
	}

	return writeWrappedPepper(ctx, kmsService, logger, writer, kmsKeyURI, pepper)
}

// RunEncryptPepper wraps an existing base64 pepper with the KMS key at kmsKeyURI,
// producing the value for VAULT_PEPPER_CIPHERTEXT. Use it to move a deployment from
// VAULT_PEPPER to KMS custody without changing the pepper.
func RunEncryptPepper(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	encodedPepper string,
	kmsKeyURI string,
) error {
	if kmsKeyURI == "" {
		return fmt.Errorf(
			"--kms-key-uri is required\n\nFor local development, use:\n  --kms-key-uri=\"base64key://<32-byte-base64-key>\"\n\nFor production, use cloud KMS providers:\n  --kms-key-uri=\"gcpkms://projects/.../cryptoKeys/...\"\n  --kms-key-uri=\"awskms:///alias/...\"\n  --kms-key-uri=\"azurekeyvault://...\"",
		)
	}

	pepper, err := cryptoDomain.ParsePepper(encodedPepper)
	if err != nil {
		return fmt.Errorf("failed to parse pepper: %w", err)
	}
	defer pepper.Zero()

	return writeWrappedPepper(ctx, kmsService, logger, writer, kmsKeyURI, pepper)
}

func writeWrappedPepper(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
	pepper cryptoDomain.Pepper,
) error {
	loader := cryptoService.NewPepperLoader(kmsService)
	wrapped, err := loader.Wrap(ctx, kmsKeyURI, pepper)
	if err != nil {
		return fmt.Errorf("failed to wrap pepper: %w", err)
	}

	logger.Info("pepper wrapped with KMS key")

	_, _ = fmt.Fprintln(writer, "# Pepper Configuration (KMS Mode)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "VAULT_PEPPER_CIPHERTEXT=\"%s\"\n", wrapped)
	return nil
}
