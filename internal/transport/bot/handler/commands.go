package handler

import (
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"auction_house/internal/transport/bot/view"
)

const rapPagePrefix = "rap_page:"

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	text := view.Status(h.svc.Count(), h.reaper.IsRunning(), h.reaper.Interval())

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

func (h *Handler) OnRap(ctx *th.Context, msg telego.Message) error {
	entries, err := h.svc.Rap(ctx)
	if err != nil {
		return h.send(ctx, msg.Chat.ID, view.RapError)
	}

	if len(entries) == 0 {
		return h.send(ctx, msg.Chat.ID, view.RapEmpty)
	}

	text, page, totalPages := view.RapPage(entries, 1)

	_, err = ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: msg.Chat.ID},
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: createPaginationKeyboard(page, totalPages),
	})
	return err
}

func (h *Handler) OnStartReaper(ctx *th.Context, msg telego.Message) error {
	if h.reaper.IsRunning() {
		return h.send(ctx, msg.Chat.ID, view.ReaperAlreadyOn)
	}

	if err := h.reaper.Start(h.baseCtx); err != nil {
		return h.send(ctx, msg.Chat.ID, fmt.Sprintf(view.ReaperStartFailed, err))
	}

	return h.send(ctx, msg.Chat.ID, view.ReaperStarted)
}

func (h *Handler) OnStopReaper(ctx *th.Context, msg telego.Message) error {
	if !h.reaper.IsRunning() {
		return h.send(ctx, msg.Chat.ID, view.ReaperAlreadyOff)
	}

	h.reaper.Stop()

	return h.send(ctx, msg.Chat.ID, view.ReaperStopped)
}

func createPaginationKeyboard(page, totalPages int) *telego.InlineKeyboardMarkup {
	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(fmt.Sprintf("%s%d", rapPagePrefix, page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, totalPages)).
		WithCallbackData("noop"))

	if page < totalPages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(fmt.Sprintf("%s%d", rapPagePrefix, page+1)))
	}

	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(buttons...),
	)
}

// Вспомогательные методы

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	return err
}

func (h *Handler) send(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	return err
}
