package handler

import (
	"context"
	"time"

	"auction_house/internal/domain/entity"
)

type auctionService interface {
	Count() int64
	Rap(ctx context.Context) ([]entity.RapEntry, error)
}

type reaper interface {
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
	Interval() time.Duration
}

type Handler struct {
	// baseCtx живёт столько же, сколько приложение; reaper запускается от него
	baseCtx context.Context //nolint:containedctx
	svc     auctionService
	reaper  reaper
}

func New(baseCtx context.Context, svc auctionService, reaper reaper) *Handler {
	return &Handler{
		baseCtx: baseCtx,
		svc:     svc,
		reaper:  reaper,
	}
}
