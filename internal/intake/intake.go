// Package intake implements the two-step purchase request conversation:
// a link to the product, then the amount. No validation is applied to either
// field; the manager checks the values by hand downstream.
package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/buffpay/internal/logger"
	"github.com/m3rciful/buffpay/internal/notify"
	"github.com/m3rciful/buffpay/internal/session"
)

// Conversation states. Idle lives in the session package.
const (
	StateAwaitingLink   session.State = "awaiting_link"
	StateAwaitingAmount session.State = "awaiting_amount"
)

// Repo is the durable store for finalized requests.
type Repo interface {
	Insert(ctx context.Context, userID int64, username, amount, link string) (int64, error)
}

// FanOut delivers the new-request notification to manager and admins.
type FanOut interface {
	Notify(ctx context.Context, note notify.Notification) notify.DeliveryReport
}

// Result tells the handler what to reply with after a text message.
type Result struct {
	Reply     string
	Finalized bool
	RequestID int64
	// Stored is false when the insert failed; the flow still confirms and
	// notifies, it only degrades durability.
	Stored bool
}

// Service drives the intake conversation over the session store.
type Service struct {
	sessions        session.Store
	repo            Repo
	fanout          FanOut
	managerUsername string
}

// New wires the intake service.
func New(sessions session.Store, repo Repo, fanout FanOut, managerUsername string) *Service {
	return &Service{
		sessions:        sessions,
		repo:            repo,
		fanout:          fanout,
		managerUsername: managerUsername,
	}
}

// InProgress reports whether the user has an active intake conversation.
func (s *Service) InProgress(userID int64) bool {
	return s.sessions.InProgress(userID)
}

// Start opens a new conversation and returns the step-1 prompt.
// The caller is responsible for the subscription gate.
func (s *Service) Start(ctx context.Context, userID int64) string {
	s.sessions.Update(userID, func(sess *session.Session) {
		sess.State = StateAwaitingLink
		sess.PendingLink = ""
	})
	logger.Info(ctx, "service.intake", "started",
		slog.Int64("user_id", userID),
		slog.String("state", string(StateAwaitingLink)),
	)
	return startPrompt(s.managerUsername)
}

type action int

const (
	actionNone action = iota
	actionAskAmount
	actionFinalize
)

// HandleText advances the conversation with the user's message. The second
// return value is false when the user has no active conversation, in which
// case the message is not part of the flow and must be ignored.
//
// The state transition runs inside the session store's critical section, so
// two racing messages in the amount stage finalize at most once.
func (s *Service) HandleText(ctx context.Context, userID int64, username, text string) (Result, bool) {
	var (
		act  action
		link string
	)
	s.sessions.Update(userID, func(sess *session.Session) {
		switch sess.State {
		case StateAwaitingLink:
			sess.PendingLink = text
			sess.State = StateAwaitingAmount
			act = actionAskAmount
		case StateAwaitingAmount:
			link = sess.PendingLink
			sess.State = session.StateIdle
			sess.PendingLink = ""
			act = actionFinalize
		default:
			act = actionNone
		}
	})

	switch act {
	case actionAskAmount:
		logger.Info(ctx, "service.intake", "link.received",
			slog.Int64("user_id", userID),
			slog.String("state", string(StateAwaitingAmount)),
		)
		return Result{Reply: amountPrompt}, true
	case actionFinalize:
		return s.finalize(ctx, userID, username, text, link), true
	default:
		return Result{}, false
	}
}

// finalize persists the request, confirms to the sender, and fans out
// notifications. A persistence failure is logged and the flow continues
// degraded rather than aborting.
func (s *Service) finalize(ctx context.Context, userID int64, username, amount, link string) Result {
	res := Result{Finalized: true}

	id, err := s.repo.Insert(ctx, userID, username, amount, link)
	if err != nil {
		logger.Error(ctx, "service.intake", "persist.failed",
			slog.Int64("user_id", userID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	} else {
		res.Stored = true
		res.RequestID = id
		logger.Info(ctx, "service.intake", "persisted",
			slog.Int64("user_id", userID),
			slog.Int64("request_id", id),
		)
	}

	res.Reply = confirmationText(amount, link, s.managerUsername)

	s.fanout.Notify(ctx, notify.Notification{
		RequestID: res.RequestID,
		UserID:    userID,
		Username:  displayName(username),
		Amount:    amount,
		Link:      link,
	})

	return res
}

func displayName(username string) string {
	if username == "" {
		return "не указано"
	}
	return username
}

func startPrompt(managerUsername string) string {
	return fmt.Sprintf(`🧾 <b>Оформление заявки</b>

Отправь, пожалуйста:
1️⃣ Ссылку на товар на BUFF
2️⃣ Сумму в юанях (¥)

Пример:
<code>https://buff.163.com/goods/42542</code>
<code>150</code>

После этого я передам данные менеджеру @%s.
Он попросит QR-код и оплатит покупку от китайского аккаунта.`, managerUsername)
}

const amountPrompt = `✅ Ссылка получена!

Теперь отправь сумму в юанях (¥)

Пример: <code>150</code>`

func confirmationText(amount, link, managerUsername string) string {
	return fmt.Sprintf(`✅ <b>Заявка создана!</b>

💳 <b>Сумма:</b> %s ¥
🔗 <b>Ссылка:</b> %s

Менеджер <code>@%s</code> свяжется с тобой в ближайшее время.
Будь онлайн — QR-код действует ограниченное время.`, amount, link, managerUsername)
}
