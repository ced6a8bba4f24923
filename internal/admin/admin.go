// Package admin holds the administrator registry and renders the views of the
// admin panel. Handlers own the keyboards and delivery; this package only
// decides who is an admin and what each screen says.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/buffpay/internal/buildinfo"
	"github.com/m3rciful/buffpay/internal/config"
	"github.com/m3rciful/buffpay/internal/logger"
	"github.com/m3rciful/buffpay/internal/storage"
)

// PageSize is the number of requests shown per page of the requests view.
const PageSize = 5

// Registry answers admin membership questions for a fixed set of ids.
type Registry struct {
	admins []config.Admin
	ids    map[int64]struct{}
}

// NewRegistry builds a registry from the configured admin list.
func NewRegistry(admins []config.Admin) *Registry {
	ids := make(map[int64]struct{}, len(admins))
	for _, a := range admins {
		ids[a.ID] = struct{}{}
	}
	return &Registry{admins: admins, ids: ids}
}

// IsAdmin reports whether the user id belongs to the registry.
func (r *Registry) IsAdmin(userID int64) bool {
	_, ok := r.ids[userID]
	return ok
}

// List returns the configured admins in registration order.
func (r *Registry) List() []config.Admin {
	return r.admins
}

// Store is the slice of the request repository the panel reads from.
type Store interface {
	Counts(ctx context.Context) (storage.Stats, error)
	RecentPage(ctx context.Context, page, pageSize int) ([]storage.Request, int64, error)
}

// RequestsView is one rendered page of the requests list.
type RequestsView struct {
	Text  string
	Page  int
	Pages int
}

// HasPrev reports whether an earlier page exists.
func (v RequestsView) HasPrev() bool { return v.Page > 0 }

// HasNext reports whether a later page exists.
func (v RequestsView) HasNext() bool { return v.Page < v.Pages-1 }

// Panel renders the admin panel screens.
type Panel struct {
	registry *Registry
	store    Store
}

// NewPanel wires the panel over the registry and the request store.
func NewPanel(registry *Registry, store Store) *Panel {
	return &Panel{registry: registry, store: store}
}

// IsAdmin proxies the registry check.
func (p *Panel) IsAdmin(userID int64) bool {
	return p.registry.IsAdmin(userID)
}

// Menu renders the panel entry screen for the given admin.
func (p *Panel) Menu(userID int64, username string) string {
	if username == "" {
		username = "без username"
	}
	return fmt.Sprintf(`🔐 <b>АДМИН-ПАНЕЛЬ</b>

👤 Вы вошли как: @%s (ID: %d)

📊 <b>Выберите действие:</b>`, username, userID)
}

// Stats renders the statistics screen. A store failure is rendered in place
// so the admin still gets a response.
func (p *Panel) Stats(ctx context.Context) string {
	stats, err := p.store.Counts(ctx)
	if err != nil {
		logger.Error(ctx, "admin", "stats.failed",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return "❌ <b>Ошибка получения статистики</b>\n\nПопробуйте позже."
	}
	return fmt.Sprintf(`📊 <b>СТАТИСТИКА БОТА</b>

📝 <b>Заявки:</b>
   • Всего заявок: %d

👥 <b>Пользователи:</b>
   • Уникальных пользователей: %d

🔄 <b>Обновлено:</b> только что`, stats.TotalRequests, stats.UniqueUsers)
}

// Requests renders one page of the requests list, newest first. The requested
// page is clamped into the valid range, so stale prev/next taps after rows
// were added or the count shrank still land on a real page.
func (p *Panel) Requests(ctx context.Context, page int) RequestsView {
	if page < 0 {
		page = 0
	}

	rows, total, err := p.store.RecentPage(ctx, page, PageSize)
	if err != nil {
		logger.Error(ctx, "admin", "requests.failed",
			slog.Int("page", page),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return RequestsView{Text: "❌ <b>Ошибка получения заявок</b>\n\nПопробуйте позже.", Pages: 1}
	}

	pages := int((total + PageSize - 1) / PageSize)
	if pages == 0 {
		return RequestsView{Text: "📋 <b>ЗАЯВКИ</b>\n\nПока нет ни одной заявки", Pages: 1}
	}
	if page >= pages {
		page = pages - 1
		rows, _, err = p.store.RecentPage(ctx, page, PageSize)
		if err != nil {
			return RequestsView{Text: "❌ <b>Ошибка получения заявок</b>\n\nПопробуйте позже.", Pages: 1}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>ЗАЯВКИ</b> (стр. %d из %d, всего %d)\n\n", page+1, pages, total)
	for _, req := range rows {
		fmt.Fprintf(&b, "<b>Заявка #%d</b>\n", req.ID)
		fmt.Fprintf(&b, "👤 @%s (ID: %d)\n", req.DisplayName(), req.UserID)
		fmt.Fprintf(&b, "💰 Сумма: %s ¥\n", req.Amount)
		fmt.Fprintf(&b, "🔗 Ссылка: %s\n", req.Link)
		fmt.Fprintf(&b, "📅 Дата: %s\n", req.CreatedAt.Format("2006-01-02 15:04"))
		b.WriteString(strings.Repeat("─", 20) + "\n\n")
	}

	logger.Debug(ctx, "admin", "requests.rendered",
		slog.Int("page", page),
		slog.Int("pages", pages),
	)
	return RequestsView{Text: b.String(), Page: page, Pages: pages}
}

// AdminList renders the configured administrators.
func (p *Panel) AdminList() string {
	admins := p.registry.List()
	var b strings.Builder
	b.WriteString("👥 <b>СПИСОК АДМИНИСТРАТОРОВ</b>\n\n")
	if len(admins) == 0 {
		b.WriteString("Список администраторов пуст.\n\n")
		b.WriteString("Добавьте админов в секцию <code>admins</code> конфига.")
		return b.String()
	}
	for i, a := range admins {
		name := a.Username
		if name == "" {
			name = "без username"
		}
		fmt.Fprintf(&b, "%d. @%s (ID: <code>%d</code>)\n", i+1, name, a.ID)
	}
	fmt.Fprintf(&b, "\n<b>Всего админов:</b> %d", len(admins))
	return b.String()
}

// About renders static bot information.
func (p *Panel) About() string {
	return fmt.Sprintf(`ℹ️ <b>ИНФОРМАЦИЯ О БОТЕ</b>

<b>Название:</b> BUFF Pay Bot
<b>Версия:</b> %s (%s)

<b>Функционал:</b>
• Прием заявок от пользователей
• Проверка подписки на канал
• Отправка уведомлений менеджеру
• Админ-панель для управления

<b>База данных:</b> PostgreSQL`, buildinfo.Version, buildinfo.Commit)
}

// NoAccess is the alert shown to non-admins on any panel interaction.
const NoAccess = "❌ Нет доступа"

// NoAccessMessage is the reply to /admin from a non-admin.
const NoAccessMessage = "❌ У вас нет доступа к админ-панели"
