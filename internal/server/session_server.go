package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"auction_house/internal/domain"
	"auction_house/internal/infrastructure/session"
	"auction_house/pkg/contextx"
	"auction_house/pkg/errcodes"
	"auction_house/pkg/httpx/reply"
	"auction_house/pkg/logx"
	"auction_house/pkg/rest"
)

const (
	headerPlaceID   = "X-Place-Id"
	headerJobID     = "X-Job-Id"
	headerJobSecret = "X-Job-Secret"
)

type countSource interface {
	Count() int64
}

type SessionServer struct {
	sessions      session.Authority
	counter       countSource
	allowedPlaces []string
}

// NewSessionServer: пустой allowedPlaces пускает любой place id.
func NewSessionServer(sessions session.Authority, counter countSource, allowedPlaces []string) SessionServer {
	return SessionServer{
		sessions:      sessions,
		counter:       counter,
		allowedPlaces: allowedPlaces,
	}
}

func (s SessionServer) getV1Connect(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	placeID, jobID, err := s.identity(r)
	if err != nil {
		return err
	}

	secret, err := s.sessions.Register(ctx, jobID)
	if err != nil {
		return fmt.Errorf("sessions.Register: %w", err)
	}

	logger(ctx).Info("game server connected",
		slog.String(logx.FieldJobID, jobID),
		slog.String(logx.FieldPlaceID, placeID),
	)

	reply.JSON(ctx, w, http.StatusOK, rest.ConnectResponse{
		Success:           true,
		TotalAuctionCount: s.counter.Count(),
		Secret:            secret,
	})

	return nil
}

func (s SessionServer) getV1Disconnect(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	jobID, err := contextx.JobIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("contextx.JobIDFromContext: %w", err)
	}

	if err := s.sessions.Revoke(ctx, jobID.String()); err != nil {
		return fmt.Errorf("sessions.Revoke: %w", err)
	}

	logger(ctx).Info("game server disconnected", slog.String(logx.FieldJobID, jobID.String()))

	reply.JSON(ctx, w, http.StatusOK, rest.SuccessResponse{Success: true})

	return nil
}

// Authenticate пропускает только запросы с секретом, выданным на /connect.
func (s SessionServer) Authenticate(next http.Handler) http.Handler {
	return handler(func(w http.ResponseWriter, r *http.Request) error {
		ctx := r.Context()

		_, jobID, err := s.identity(r)
		if err != nil {
			if domain.HasCode(err, errcodes.Forbidden) {
				return err
			}
			return domain.NewError(errcodes.Unauthorized, "unauthorized")
		}

		if err := session.Verify(ctx, s.sessions, jobID, r.Header.Get(headerJobSecret)); err != nil {
			return err
		}

		ctx = contextx.WithJobID(ctx, contextx.JobID(jobID))
		ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldJobID, jobID)))

		next.ServeHTTP(w, r.WithContext(ctx))

		return nil
	})
}

func (s SessionServer) identity(r *http.Request) (string, string, error) {
	placeID := r.Header.Get(headerPlaceID)
	jobID := r.Header.Get(headerJobID)

	if placeID == "" || jobID == "" {
		return "", "", domain.NewError(errcodes.ValidationError, "missing place id or job id")
	}

	if len(s.allowedPlaces) > 0 && !slices.Contains(s.allowedPlaces, placeID) {
		return "", "", domain.NewError(errcodes.Forbidden, "place is not allowed")
	}

	return placeID, jobID, nil
}
