package handler

import (
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"auction_house/internal/transport/bot/view"
)

func (h *Handler) OnRapCallback(ctx *th.Context, query telego.CallbackQuery) error {
	var page int
	if _, err := fmt.Sscanf(query.Data, rapPagePrefix+"%d", &page); err != nil {
		page = 1
	}

	entries, err := h.svc.Rap(ctx)
	if err != nil {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText(view.RapError).WithShowAlert())
		return err
	}

	text, page, totalPages := view.RapPage(entries, page)

	if query.Message != nil {
		// Telegram ругается, если текст не изменился; это не ошибка
		_, _ = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
			ChatID:      tu.ID(query.Message.GetChat().ID),
			MessageID:   query.Message.GetMessageID(),
			Text:        text,
			ParseMode:   telego.ModeHTML,
			ReplyMarkup: createPaginationKeyboard(page, totalPages),
		})
	}

	_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))

	return nil
}
