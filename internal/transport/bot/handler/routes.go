package handler

import (
	"p2p_market/internal/transport/bot/middleware"

	th "github.com/mymmrac/telego/telegohandler"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	// Все команды только для админа
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	// Команда /start
	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))

	// Команда /status
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))

	// Команда /offers
	adminGroup.HandleMessage(h.OnOffers, th.CommandEqual("offers"))

	// Команда /offer <id>
	adminGroup.HandleMessage(h.OnOffer, th.CommandEqual("offer"))

	// Команда /clone <id>
	adminGroup.HandleMessage(h.OnClone, th.CommandEqual("clone"))
}
