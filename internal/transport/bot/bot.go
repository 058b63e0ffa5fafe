package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"auction_house/internal/config"
	"auction_house/internal/domain/service/auction"
	"auction_house/internal/transport/bot/handler"
	"auction_house/internal/worker"
	"auction_house/pkg/contextx"
	"auction_house/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Bot: админский Telegram-бот аукциона.
type Bot struct {
	bot        *telego.Bot
	botHandler *th.BotHandler
}

// New создает бота и подписывается на обновления через long polling.
func New(
	ctx context.Context,
	cfg config.Bot,
	svc *auction.AuctionService,
	reaper *worker.Reaper,
) (*Bot, error) {
	bot, err := telego.NewBot(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	adminIDs := cfg.AdminIDs
	if len(adminIDs) == 0 {
		adminIDs = []int64{cfg.ChatID}
	}

	handler.New(ctx, svc, reaper).RegisterRoutes(botHandler, adminIDs...)

	return &Bot{
		bot:        bot,
		botHandler: botHandler,
	}, nil
}

// Run обрабатывает обновления до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		if err := b.botHandler.Start(); err != nil {
			logger(ctx).Error("failed to start bot handler", logx.Error(err))
		}
	}()

	logger(ctx).Info("admin bot started")

	<-ctx.Done()

	if err := b.botHandler.Stop(); err != nil {
		logger(ctx).Error("failed to stop bot handler", logx.Error(err))
	}

	logger(ctx).Info("admin bot stopped")

	return nil
}
