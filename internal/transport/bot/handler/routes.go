package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"auction_house/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminIDs ...int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminIDs...))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnRap, th.CommandEqual("rap"))
	adminGroup.HandleMessage(h.OnStartReaper, th.CommandEqual("startreaper"))
	adminGroup.HandleMessage(h.OnStopReaper, th.CommandEqual("stopreaper"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminIDs...))

	cbGroup.HandleCallbackQuery(h.OnRapCallback, th.CallbackDataPrefix(rapPagePrefix))
}
