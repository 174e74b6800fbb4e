package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"p2p_market/internal/domain/service/offerbook"
	"p2p_market/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run обрабатывает результаты размещений из канала.
func (b *TelegramBot) Run(ctx context.Context, results <-chan offerbook.PlacementResult) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case result, ok := <-results:
			if !ok {
				return nil
			}
			if err := b.SendPlacementResult(ctx, result); err != nil {
				logger(ctx).Error("failed to send placement result", "error", err)
			}
		}
	}
}

func (b *TelegramBot) SendPlacementResult(ctx context.Context, result offerbook.PlacementResult) error {
	var text string
	if result.Placed {
		text = fmt.Sprintf(
			"✅ <b>Offer placed</b>\n\n"+
				"🆔 <b>ID:</b> <code>%s</code>\n"+
				"💱 <b>Market:</b> BTC/%s",
			result.OfferID,
			result.CurrencyCode,
		)
	} else {
		text = fmt.Sprintf(
			"❌ <b>Offer placement failed</b>\n\n"+
				"🆔 <b>ID:</b> <code>%s</code>\n"+
				"💱 <b>Market:</b> BTC/%s\n"+
				"⚠️ %s",
			result.OfferID,
			result.CurrencyCode,
			result.ErrorMessage,
		)
	}

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	_, err := b.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}
