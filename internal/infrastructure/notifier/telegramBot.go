package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/shopspring/decimal"

	"auction_house/internal/domain/entity"
	"auction_house/pkg/logx"
)

type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

type RapSource interface {
	Rap(ctx context.Context) ([]entity.RapEntry, error)
}

// SaleAlert: продажа заметно дешевле RAP.
type SaleAlert struct {
	Claim    entity.ClaimRecord
	Rap      decimal.Decimal
	Discount decimal.Decimal // доля от RAP, 0.4 = на 40% дешевле
}

type TelegramBot struct {
	sender      messageSender
	chatID      int64
	rap         RapSource
	minDiscount decimal.Decimal
}

func NewTelegramBot(token string, chatID int64, rap RapSource, minDiscount float64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return newTelegramBot(bot, chatID, rap, minDiscount), nil
}

func newTelegramBot(sender messageSender, chatID int64, rap RapSource, minDiscount float64) *TelegramBot {
	return &TelegramBot{
		sender:      sender,
		chatID:      chatID,
		rap:         rap,
		minDiscount: decimal.NewFromFloat(minDiscount),
	}
}

// Run читает продажи из канала и шлёт алерты по дешёвым.
func (b *TelegramBot) Run(ctx context.Context, sales <-chan entity.ClaimRecord) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sale, ok := <-sales:
			if !ok {
				return nil
			}
			if err := b.handleSale(ctx, sale); err != nil {
				logger(ctx).Error("failed to send sale alert",
					slog.String(logx.FieldListingID, sale.ID.String()),
					logx.Error(err),
				)
			}
		}
	}
}

func (b *TelegramBot) handleSale(ctx context.Context, sale entity.ClaimRecord) error {
	raps, err := b.rap.Rap(ctx)
	if err != nil {
		return fmt.Errorf("rap.Rap: %w", err)
	}

	alert, ok := Evaluate(sale, raps, b.minDiscount)
	if !ok {
		return nil
	}

	return b.SendAlert(ctx, alert)
}

// Evaluate reports whether sale went at least minDiscount below its item's RAP.
func Evaluate(sale entity.ClaimRecord, raps []entity.RapEntry, minDiscount decimal.Decimal) (SaleAlert, bool) {
	for _, r := range raps {
		if r.ItemClass != sale.ItemClass || r.ItemID != sale.ItemID {
			continue
		}

		if !r.AveragePrice.IsPositive() {
			return SaleAlert{}, false
		}

		discount := decimal.NewFromInt(1).Sub(sale.Price.Div(r.AveragePrice))
		if discount.LessThan(minDiscount) {
			return SaleAlert{}, false
		}

		return SaleAlert{Claim: sale, Rap: r.AveragePrice, Discount: discount}, true
	}

	return SaleAlert{}, false
}

func (b *TelegramBot) SendAlert(ctx context.Context, alert SaleAlert) error {
	text := fmt.Sprintf(
		"🔥 <b>Cheap sale</b>\n\n"+
			"🎁 <b>Item:</b> %s / %s\n"+
			"💰 <b>Price:</b> %s\n"+
			"📊 <b>RAP:</b> %s\n"+
			"📉 <b>Below RAP:</b> %s%%\n"+
			"👤 <b>Seller:</b> %d",
		html.EscapeString(alert.Claim.ItemClass),
		html.EscapeString(alert.Claim.ItemID),
		alert.Claim.Price.String(),
		alert.Rap.StringFixed(2),
		alert.Discount.Mul(decimal.NewFromInt(100)).StringFixed(1),
		alert.Claim.SellerID,
	)

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	if _, err := b.sender.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}
