package router

import (
	"time"

	tg "github.com/m3rciful/buffpay/internal/telegram"
	"github.com/m3rciful/buffpay/internal/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Conversation is the active-dialog view of the intake flow. Text from a user
// with a conversation in progress always goes to the conversation first, so
// commands typed mid-dialog are treated as plain input.
type Conversation interface {
	InProgress(userID int64) bool
	HandleUpdate(c tele.Context) error
}

// TextRoute builds the single OnText route: conversation first, then slash
// commands, then the registry's text fallback.
func TextRoute(conv Conversation, reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if conv != nil && c.Sender() != nil && conv.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "intake", start, func() error {
				return conv.HandleUpdate(c)
			})
		}

		if reg != nil {
			if cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				return handleWithSummary(c, normalizeHandlerName(text), start, func() error {
					return cmd.Handler(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, func() error {
					return fb(c)
				})
			}
		}

		logHandlerSummary(c, "unknown_text", start, "skip", nil)
		return nil
	}

	return tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
