package handler

import (
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/buffpay/internal/admin"
	"github.com/m3rciful/buffpay/internal/telegram/callbacks"
	tghelpers "github.com/m3rciful/buffpay/internal/telegram/helpers"
	"github.com/m3rciful/buffpay/internal/telegram/keyboard"
)

func adminMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "📊 Статистика", Unique: "admin_stats"},
		{Text: "📋 Все заявки", Unique: "admin_requests"},
		{Text: "👥 Список админов", Unique: "admin_list"},
		{Text: "ℹ️ О боте", Unique: "admin_info"},
	})
}

func adminBackKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "⬅️ Назад в админку", Unique: "admin_back"},
	})
}

// AdminPanel handles /admin. The command route already rejects non-admins
// with the no-access message.
func (h *Handlers) AdminPanel(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	return tghelpers.SendHTML(c, h.panel.Menu(user.ID, user.Username), adminMenuKeyboard())
}

// AdminBack returns to the panel entry screen.
func (h *Handlers) AdminBack(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	return tghelpers.SendHTML(c, h.panel.Menu(user.ID, user.Username), adminMenuKeyboard())
}

// AdminStats shows aggregate request counters.
func (h *Handlers) AdminStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return tghelpers.SendHTML(c, h.panel.Stats(ctx), adminBackKeyboard())
}

// AdminRequests shows one page of the request list. The callback payload
// carries the page number; the first open has none and lands on page 0.
func (h *Handlers) AdminRequests(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	page := 0
	if p, err := callbacks.PayloadInt(c); err == nil {
		page = p
	}

	view := h.panel.Requests(ctx, page)

	var nav []keyboard.InlineBtn
	if view.HasPrev() {
		nav = append(nav, keyboard.InlineBtn{
			Text:   "⬅️",
			Unique: "admin_requests",
			Data:   strconv.Itoa(view.Page - 1),
		})
	}
	if view.HasNext() {
		nav = append(nav, keyboard.InlineBtn{
			Text:   "➡️",
			Unique: "admin_requests",
			Data:   strconv.Itoa(view.Page + 1),
		})
	}

	rows := [][]keyboard.InlineBtn{}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "⬅️ Назад в админку", Unique: "admin_back"}})

	return tghelpers.EditOrSendHTML(c, view.Text, keyboard.InlineButtonsRows(rows...))
}

// AdminList shows the configured administrators.
func (h *Handlers) AdminList(c tele.Context) error {
	return tghelpers.SendHTML(c, h.panel.AdminList(), adminBackKeyboard())
}

// AdminInfo shows static bot information.
func (h *Handlers) AdminInfo(c tele.Context) error {
	return tghelpers.SendHTML(c, h.panel.About(), adminBackKeyboard())
}

// AdminReject replies to /admin from users outside the registry.
func (h *Handlers) AdminReject(c tele.Context) error {
	return tghelpers.SendText(c, admin.NoAccessMessage)
}
