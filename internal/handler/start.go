package handler

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/buffpay/internal/telegram/helpers"
	"github.com/m3rciful/buffpay/internal/telegram/keyboard"
)

func mainMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🪪 Как зарегистрироваться", Unique: "register"},
		{Text: "🔗 Как скинуть ссылку", Unique: "send_link"},
		{Text: "🧾 Оформить заявку", Unique: "request"},
		{Text: "❓ Как это работает", Unique: "how_it_works"},
		{Text: "💬 Поддержка", Unique: "support"},
	})
}

const mainMenuText = `💎 <b>BUFF Pay</b> — покупай скины в 2 раза дешевле, чем в Steam

Если ты покупаешь через Steam — ты переплачиваешь до 40%.
В Китае есть официальный маркетплейс BUFF (buff.163.com), где те же скины стоят на треть дешевле.

Мы помогаем тебе купить там, где ты не можешь сам.

📍 <b>Выбери что тебе нужно:</b>`

// Start handles /start: subscription wall for outsiders, the menu otherwise.
func (h *Handlers) Start(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	if !h.gate.Allowed(ctx, user.ID) {
		return h.sendSubscriptionRequired(c)
	}
	return tghelpers.SendHTML(c, mainMenuText, mainMenuKeyboard())
}

// BackToStart returns the user to a compact main menu.
func (h *Handlers) BackToStart(c tele.Context) error {
	text := `💎 <b>BUFF Pay</b> — главное меню

Выбери что тебе нужно:`
	return tghelpers.SendHTML(c, text, mainMenuKeyboard())
}

// GuideRegister explains registration on the marketplace via Steam.
func (h *Handlers) GuideRegister(c tele.Context) error {
	text := `🪪 <b>Как зарегистрироваться на BUFF (buff.163.com)</b>

1️⃣ Зайди на сайт <code>https://buff.163.com</code>

2️⃣ Нажми «Login via Steam» (кнопка с логотипом Steam)

3️⃣ Авторизуйся через свой Steam-аккаунт

4️⃣ После входа BUFF попросит подтвердить номер телефона:
   • Выбери страну 🇰🇿 Казахстан
   • Введи свой номер
   • Убедись что VPN выключен
   • Подтверди SMS-код

5️⃣ После этого аккаунт BUFF будет создан!

✅ <b>Теперь ты можешь спокойно:</b>
   • Смотреть и покупать скины
   • На сайте есть русская версия интерфейса
   • Цены отображаются в юанях
   • Можно добавить в «Избранное» интересующие товары

<b>Следующий шаг:</b> Нажми «Как скинуть ссылку», чтобы узнать как найти и отправить скин`
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🔗 Как скинуть ссылку", Unique: "send_link"},
		{Text: "⬅️ Назад в меню", Unique: "back_to_start"},
	})
	return tghelpers.SendHTML(c, text, markup)
}

// GuideSendLink explains how to pick an item and send its link.
func (h *Handlers) GuideSendLink(c tele.Context) error {
	text := fmt.Sprintf(`🔗 <b>Как скинуть ссылку на товар с BUFF</b>

1️⃣ Зайди на <code>https://buff.163.com</code> и выбери нужный скин

2️⃣ Нажми на товар, чтобы открыть его страницу

3️⃣ Скопируй ссылку из адресной строки

Пример:
<code>https://buff.163.com/goods/42542</code>

4️⃣ Отправь эту ссылку и сумму в юанях в этого бота

5️⃣ Менеджер @%s напишет тебе и попросит QR-код для оплаты

<b>Готов отправить заявку?</b> Нажми кнопку ниже 👇`, h.cfg.Manager.Username)
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🧾 Оформить заявку", Unique: "request"},
		{Text: "⬅️ Назад в меню", Unique: "back_to_start"},
	})
	return tghelpers.SendHTML(c, text, markup)
}

// GuideHowItWorks walks through the whole purchase flow.
func (h *Handlers) GuideHowItWorks(c tele.Context) error {
	text := fmt.Sprintf(`⚙️ <b>Как это работает</b>

1️⃣ Ты сам заходишь на сайт <code>buff.163.com</code>

2️⃣ Выбираешь скин, доходишь до оплаты — BUFF покажет QR-код

3️⃣ Возвращаешься сюда и жмёшь «Оформить заявку»

4️⃣ Вводишь сумму и ссылку на товар

5️⃣ Мы переадресуем тебя менеджеру @%s

6️⃣ Менеджер попросит QR-код и оплатит покупку через китайскую платёжную систему

7️⃣ Скин падает прямо в твой инвентарь

💰 <b>Средняя экономия — 30–40%% по сравнению со Steam</b>`, h.cfg.Manager.Username)
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "⬅️ Назад в меню", Unique: "back_to_start"},
	})
	return tghelpers.SendHTML(c, text, markup)
}

// Support shows the manager contact.
func (h *Handlers) Support(c tele.Context) error {
	text := fmt.Sprintf(`📞 <b>Поддержка</b>

Если что-то непонятно или нужна срочная помощь — пиши менеджеру:

<code>@%s</code>

Он ответит на все вопросы и поможет с заявкой.`, h.cfg.Manager.Username)
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "⬅️ Назад в меню", Unique: "back_to_start"},
	})
	return tghelpers.SendHTML(c, text, markup)
}

// StartRequest opens the request conversation.
func (h *Handlers) StartRequest(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	prompt := h.intake.Start(ctx, user.ID)
	return tghelpers.SendHTML(c, prompt)
}
