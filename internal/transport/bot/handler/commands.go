package handler

import (
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/service/offeredit"
	"p2p_market/internal/transport/bot/view"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	offers, err := h.svc.OpenOffers(ctx, h.maxOpenOffers+1, 0)
	if err != nil {
		return h.send(ctx, msg.Chat.ID, view.OffersError)
	}

	active, deactivated := 0, 0
	for _, offer := range offers {
		if offer.IsDeactivated() {
			deactivated++
		} else {
			active++
		}
	}

	text := fmt.Sprintf(`📊 <b>Книга офферов</b>

🟢 <b>Активных:</b> %d
⚪ <b>Деактивированных:</b> %d
📦 <b>Лимит:</b> %d`,
		active,
		deactivated,
		h.maxOpenOffers,
	)

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

func (h *Handler) OnOffers(ctx *th.Context, msg telego.Message) error {
	offers, err := h.svc.OpenOffers(ctx, 10, 0)
	if err != nil {
		return h.send(ctx, msg.Chat.ID, view.OffersError)
	}

	if len(offers) == 0 {
		return h.send(ctx, msg.Chat.ID, view.NoOpenOffers)
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Открытые офферы</b>\n")

	for _, offer := range offers {
		sb.WriteString("\n")
		sb.WriteString(formatOpenOfferLine(offer))
	}

	return h.sendHTML(ctx, msg.Chat.ID, sb.String())
}

func (h *Handler) OnOffer(ctx *th.Context, msg telego.Message) error {
	id, ok := commandArgument(msg.Text)
	if !ok {
		return h.send(ctx, msg.Chat.ID, view.OfferMissingArgument)
	}

	openOffer, err := h.svc.OpenOffer(ctx, id)
	if err != nil {
		return h.send(ctx, msg.Chat.ID, fmt.Sprintf("Оффер не найден: %v", err))
	}

	payload := openOffer.Offer.Payload
	text := fmt.Sprintf(`🧾 <b>Оффер</b> <code>%s</code>

💱 <b>Рынок:</b> BTC/%s
↔️ <b>Направление:</b> %s
💰 <b>Сумма:</b> %d–%d sat
💵 <b>Цена:</b> %s
🧷 <b>Fee tx:</b> <code>%s</code>
🚦 <b>Состояние:</b> %s`,
		payload.ID,
		openOffer.Offer.CurrencyCode(),
		payload.Direction,
		payload.MinAmount, payload.Amount,
		priceLabel(payload),
		payload.OfferFeeTxID,
		openOffer.State,
	)

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

func (h *Handler) OnClone(ctx *th.Context, msg telego.Message) error {
	id, ok := commandArgument(msg.Text)
	if !ok {
		return h.send(ctx, msg.Chat.ID, view.CloneMissingArgument)
	}

	outcome, err := h.svc.CloneOffer(ctx, id, offeredit.Edits{})
	if err != nil {
		return h.send(ctx, msg.Chat.ID, fmt.Sprintf("Клонирование не удалось: %v", err))
	}

	text := fmt.Sprintf(
		"🧬 Клон принят к размещению\n\n🆔 <code>%s</code>",
		outcome.Offer.ID(),
	)
	if outcome.ActivationBlocked {
		text += "\n\n⚠️ Конфликт с активным оффером: клон размещается деактивированным"
	}

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

func commandArgument(text string) (string, bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return "", false
	}

	return parts[1], true
}

func formatOpenOfferLine(openOffer *entity.OpenOffer) string {
	payload := openOffer.Offer.Payload

	marker := "🟢"
	if openOffer.IsDeactivated() {
		marker = "⚪"
	}

	return fmt.Sprintf("%s <code>%s</code> %s BTC/%s %d sat @ %s",
		marker,
		payload.ID,
		payload.Direction,
		openOffer.Offer.CurrencyCode(),
		payload.Amount,
		priceLabel(payload),
	)
}

func priceLabel(payload entity.OfferPayload) string {
	if payload.UseMarketBasedPrice {
		return fmt.Sprintf("market %+.2f%%", payload.MarketPriceMargin*100)
	}

	return payload.Price.String()
}

func (h *Handler) send(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})

	return err
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})

	return err
}
