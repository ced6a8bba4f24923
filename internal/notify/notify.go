// Package notify delivers new-request alerts to the manager and the
// administrator registry. Delivery is best effort: one attempt per recipient,
// no retries, and one recipient failing never blocks the rest.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/buffpay/internal/config"
	"github.com/m3rciful/buffpay/internal/logger"
)

// Sender performs a single outbound delivery to a user.
type Sender interface {
	Send(userID int64, text string) error
}

// Notification carries the request summary delivered to recipients.
type Notification struct {
	RequestID int64
	UserID    int64
	Username  string
	Amount    string
	Link      string
}

// DeliveryReport records what happened during one fan-out.
type DeliveryReport struct {
	ManagerAttempted bool
	ManagerDelivered bool
	AdminsAttempted  int
	AdminsDelivered  int
}

// Notifier fans a notification out to the configured recipients.
type Notifier struct {
	sender  Sender
	manager config.ManagerConfig
	admins  []config.Admin
}

// New builds a Notifier. A zero manager id disables the manager channel.
func New(sender Sender, manager config.ManagerConfig, admins []config.Admin) *Notifier {
	return &Notifier{sender: sender, manager: manager, admins: admins}
}

// Notify delivers the request summary to the manager (when configured) and to
// every administrator. It never returns an error: failures are logged per
// recipient and reflected in the report.
func (n *Notifier) Notify(ctx context.Context, note Notification) DeliveryReport {
	var report DeliveryReport

	if n.manager.ID != 0 {
		report.ManagerAttempted = true
		if err := n.sender.Send(n.manager.ID, managerText(note, n.manager.Username)); err != nil {
			logger.Error(ctx, "service.notify", "manager.failed",
				slog.Int64("recipient", n.manager.ID),
				slog.Int64("request_id", note.RequestID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		} else {
			report.ManagerDelivered = true
			logger.Info(ctx, "service.notify", "manager.delivered",
				slog.Int64("recipient", n.manager.ID),
				slog.Int64("request_id", note.RequestID),
			)
		}
	} else {
		logger.Warn(ctx, "service.notify", "manager.skipped",
			slog.String("cause", "manager id not configured"),
		)
	}

	if len(n.admins) == 0 {
		logger.Warn(ctx, "service.notify", "admins.skipped",
			slog.String("cause", "admin registry empty"),
		)
		return report
	}

	text := adminText(note)
	for _, admin := range n.admins {
		report.AdminsAttempted++
		if err := n.sender.Send(admin.ID, text); err != nil {
			logger.Error(ctx, "service.notify", "admin.failed",
				slog.Int64("recipient", admin.ID),
				slog.String("username", admin.Username),
				slog.Int64("request_id", note.RequestID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
			continue
		}
		report.AdminsDelivered++
	}

	logger.Info(ctx, "service.notify", "fanout.done",
		slog.Int64("request_id", note.RequestID),
		slog.Int("admins", report.AdminsAttempted),
		slog.Int("delivered", report.AdminsDelivered),
		slog.Int("failed", report.AdminsAttempted-report.AdminsDelivered),
	)
	return report
}

func managerText(note Notification, managerUsername string) string {
	return fmt.Sprintf(`📥 <b>Новая заявка с BUFF Pay</b>

👤 <b>Пользователь:</b> @%s
🆔 <b>ID:</b> <code>%d</code>
💳 <b>Сумма:</b> <code>%s</code> ¥
🔗 <b>Ссылка:</b>
<code>%s</code>

⏰ <b>Действие:</b> Свяжись через @%s для запроса QR-кода.`,
		note.Username, note.UserID, note.Amount, note.Link, managerUsername)
}

func adminText(note Notification) string {
	return fmt.Sprintf(`🔔 <b>НОВАЯ ЗАЯВКА</b>

👤 <b>Пользователь:</b> @%s
🆔 <b>ID:</b> <code>%d</code>
💰 <b>Сумма:</b> %s ¥
🔗 <b>Ссылка:</b>
%s

📊 Проверьте админ-панель: /admin`,
		note.Username, note.UserID, note.Amount, note.Link)
}
