// Package session tracks which game server jobs are connected and the secret
// each one was issued.
package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"auction_house/internal/domain"
	"auction_house/pkg/errcodes"
)

const DefaultTTL = 24 * time.Hour

const secretBytes = 16

// Authority: общий интерфейс для Redis и in-memory реализаций.
type Authority interface {
	// Register issues a secret for jobID. It fails with SessionAlreadyConnected
	// when the job already holds one.
	Register(ctx context.Context, jobID string) (string, error)
	// Lookup returns the secret of jobID or SessionNotFound.
	Lookup(ctx context.Context, jobID string) (string, error)
	// Revoke forgets jobID. It fails with SessionNotFound for unknown jobs.
	Revoke(ctx context.Context, jobID string) error
}

// Verify checks secret against the one issued to jobID.
func Verify(ctx context.Context, a Authority, jobID, secret string) error {
	if jobID == "" || secret == "" {
		return domain.NewError(errcodes.Unauthorized, "unauthorized")
	}

	issued, err := a.Lookup(ctx, jobID)
	if err != nil {
		if domain.HasCode(err, errcodes.SessionNotFound) {
			return domain.NewError(errcodes.Unauthorized, "unauthorized")
		}
		return err
	}

	if subtle.ConstantTimeCompare([]byte(issued), []byte(secret)) != 1 {
		return domain.NewError(errcodes.Unauthorized, "unauthorized")
	}

	return nil
}

func newSecret() (string, error) {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}

	return hex.EncodeToString(b), nil
}

func alreadyConnected() error {
	return domain.NewError(errcodes.SessionAlreadyConnected, "job already connected")
}

func notFound() error {
	return domain.NewError(errcodes.SessionNotFound, "job is not connected")
}
