package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"auction_house/pkg/httpx/reply"
	"auction_house/pkg/logx"
	"auction_house/pkg/middlewarex"
)

const logFieldMaxLen = 4096

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Masker         logx.SensitiveDataMaskerInterface
}

// Handler собирает chi роутер со всеми middleware.
func (s Server) Handler(opts RouterOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Masker == nil {
		opts.Masker = logx.NewSensitiveDataMasker()
	}

	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger(opts.Logger),
		middlewarex.Recovery,
		middlewarex.CORS(opts.AllowedOrigins),
		middleware.CleanPath,
		middlewarex.RequestLogging(opts.Masker, logFieldMaxLen),
		middlewarex.ResponseLogging(opts.Masker, logFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Get("/", handler(s.getRoot))

		r.Route("/v1", func(r chi.Router) {
			// unauthorized zone
			r.Get("/connect", handler(s.getV1Connect))
			r.Get("/auctions/count", handler(s.getV1AuctionsCount))

			// authorized zone
			r.Group(func(r chi.Router) {
				r.Use(s.Authenticate)

				r.Get("/disconnect", handler(s.getV1Disconnect))
				r.Post("/heartbeat", handler(s.postV1Heartbeat))

				r.Post("/auctions", handler(s.postV1Auctions))
				r.Post("/auctions/purchase", handler(s.postV1AuctionsPurchase))
				r.Post("/auctions/cancel", handler(s.postV1AuctionsCancel))
				r.Post("/auctions/extend", handler(s.postV1AuctionsExtend))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
