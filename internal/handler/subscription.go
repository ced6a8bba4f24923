package handler

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/buffpay/internal/telegram/helpers"
	"github.com/m3rciful/buffpay/internal/telegram/keyboard"
)

// sendSubscriptionRequired shows the subscription wall with a join link and a
// recheck button.
func (h *Handlers) sendSubscriptionRequired(c tele.Context) error {
	text := fmt.Sprintf(`<b>Обязательная подписка</b>

Для защиты от фейковых ботов и мошенников необходимо подписаться на официальный канал %s

В канале публикуются официальные новости, информация о безопасности и предупреждения о мошенниках.

После подписки нажмите кнопку "Проверить подписку".`, h.cfg.Channel.Username)

	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Подписаться на канал", URL: h.cfg.Channel.JoinURL()},
		{Text: "Проверить подписку", Unique: "check_subscription"},
	})
	return tghelpers.SendHTML(c, text, markup)
}

// CheckSubscription rechecks the gate. The verdict always comes from a fresh
// oracle query; a user who subscribed a second ago passes immediately.
func (h *Handlers) CheckSubscription(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	if !h.gate.Allowed(ctx, user.ID) {
		_ = c.Respond(&tele.CallbackResponse{
			Text:      "Подписка не обнаружена. Подпишитесь на канал и повторите попытку.",
			ShowAlert: true,
		})
		return h.sendSubscriptionRequired(c)
	}

	_ = c.Respond(&tele.CallbackResponse{Text: "Подписка подтверждена"})
	return tghelpers.SendHTML(c, mainMenuText, mainMenuKeyboard())
}
