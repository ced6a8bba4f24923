// Package handler binds the bot's screens to commands and callbacks: the main
// menu with its guides, the subscription wall, the request flow entry and the
// admin panel.
package handler

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/buffpay/internal/admin"
	"github.com/m3rciful/buffpay/internal/config"
	"github.com/m3rciful/buffpay/internal/gate"
	"github.com/m3rciful/buffpay/internal/intake"
	tg "github.com/m3rciful/buffpay/internal/telegram"
	tghelpers "github.com/m3rciful/buffpay/internal/telegram/helpers"
)

// Handlers wires the services into telebot handlers.
type Handlers struct {
	cfg    *config.Config
	gate   *gate.Gate
	intake *intake.Service
	panel  *admin.Panel
}

// New builds the handler set.
func New(cfg *config.Config, g *gate.Gate, svc *intake.Service, panel *admin.Panel) *Handlers {
	return &Handlers{cfg: cfg, gate: g, intake: svc, panel: panel}
}

// Register adds every command and callback to the registry.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", tg.Command{
		Handler:     h.Start,
		Description: "Главное меню",
	})
	reg.RegisterCommand("/admin", tg.Command{
		Handler:     h.AdminPanel,
		Description: "Админ-панель",
		AdminOnly:   true,
		Hidden:      true,
	})

	reg.RegisterCallback("register", h.guard(h.GuideRegister))
	reg.RegisterCallback("send_link", h.guard(h.GuideSendLink))
	reg.RegisterCallback("how_it_works", h.guard(h.GuideHowItWorks))
	reg.RegisterCallback("support", h.guard(h.Support))
	reg.RegisterCallback("back_to_start", h.guard(h.BackToStart))
	reg.RegisterCallback("request", h.guard(h.StartRequest))
	reg.RegisterCallback("check_subscription", h.CheckSubscription)

	reg.RegisterCallback("admin_stats", h.adminGuard(h.AdminStats))
	reg.RegisterCallback("admin_requests", h.adminGuard(h.AdminRequests))
	reg.RegisterCallback("admin_list", h.adminGuard(h.AdminList))
	reg.RegisterCallback("admin_info", h.adminGuard(h.AdminInfo))
	reg.RegisterCallback("admin_back", h.adminGuard(h.AdminBack))
}

// IsAdmin satisfies the transport's admin check for admin-only commands.
func (h *Handlers) IsAdmin(userID int64) bool {
	return h.panel.IsAdmin(userID)
}

// InProgress reports whether the sender has an active request conversation.
// Together with HandleUpdate it satisfies the text router's Conversation.
func (h *Handlers) InProgress(userID int64) bool {
	return h.intake.InProgress(userID)
}

// HandleUpdate feeds the message text into the intake flow.
func (h *Handlers) HandleUpdate(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	res, handled := h.intake.HandleText(ctx, user.ID, user.Username, c.Text())
	if !handled {
		return nil
	}
	return tghelpers.SendHTML(c, res.Reply)
}

// guard wraps a callback handler with the subscription gate. Denied users get
// the subscription wall instead of the requested screen.
func (h *Handlers) guard(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		user := c.Sender()
		if user == nil {
			return nil
		}
		ctx := tghelpers.BuildContext(c)
		if !h.gate.Allowed(ctx, user.ID) {
			_ = c.Respond(&tele.CallbackResponse{Text: "Требуется подписка на канал", ShowAlert: true})
			return h.sendSubscriptionRequired(c)
		}
		_ = c.Respond(&tele.CallbackResponse{})
		return next(c)
	}
}

// adminGuard rejects non-admins with a bare alert.
func (h *Handlers) adminGuard(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		user := c.Sender()
		if user == nil || !h.panel.IsAdmin(user.ID) {
			return c.Respond(&tele.CallbackResponse{Text: admin.NoAccess, ShowAlert: true})
		}
		_ = c.Respond(&tele.CallbackResponse{})
		return next(c)
	}
}
