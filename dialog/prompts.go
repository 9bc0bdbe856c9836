package dialog

import "fmt"

// Reply is one outgoing prompt, transport-neutral. The telegram layer maps
// it onto a message with an optional reply keyboard.
type Reply struct {
	Text           string
	Keyboard       [][]string // rows of button labels
	RemoveKeyboard bool
	Markdown       bool
}

func say(text string) Reply {
	return Reply{Text: text}
}

func sayPlain(text string) Reply {
	return Reply{Text: text, RemoveKeyboard: true}
}

func sayMenu(text string, rows ...string) Reply {
	kb := make([][]string, 0, len(rows))
	for _, r := range rows {
		kb = append(kb, []string{r})
	}
	return Reply{Text: text, Keyboard: kb}
}

// Fixed-choice button labels. Menu states match input against these
// exactly; anything else is ignored until a valid choice arrives.
const (
	btnCreateNew      = "🔄 Создать новое портфолио"
	btnUpdateExisting = "✏️ Обновить существующее (/update)"
	btnCancel         = "❌ Отмена"
	btnUseExisting    = "✅ Использовать существующий"
	btnNewRepo        = "🆕 Создать новый"

	btnUpdateName     = "👤 Имя и фамилия"
	btnUpdateGrade    = "💼 Грейд / роль"
	btnUpdateCity     = "📍 Город"
	btnUpdateIntro    = "📝 Интро"
	btnUpdateContacts = "📧 Контакты"
	btnUpdatePhoto    = "📸 Фото"

	btnContactEmail    = "📧 Email"
	btnContactTelegram = "💬 Telegram"
	btnContactLinkedIn = "💼 LinkedIn"
	btnContactDribbble = "🎨 Dribbble"
	btnContactBehance  = "🖼️ Behance"
	btnContactCV       = "📄 CV"
)

const welcomeText = "👋 Привет! Я бот для создания портфолио на GitHub Pages.\n\n" +
	"📋 **Доступные команды:**\n\n" +
	"• `/start` — создать новое портфолио или управлять существующим\n" +
	"• `/update` — обновить отдельные поля в существующем портфолио\n" +
	"• `/help` — показать справку по командам\n" +
	"• `/restart` — начать заново\n\n" +
	"🔧 Бот создаст репозиторий на GitHub из Hugo-шаблона, запишет туда конфиг и фото, " +
	"а затем запустит GitHub Actions для автоматического деплоя.\n\n" +
	"🔑 На одном из шагов потребуется GitHub Personal Access Token с правами `public_repo` " +
	"(и опционально `workflow`). Токен используется только во время сессии и не сохраняется.\n\n" +
	"💡 Начни с команды `/start`!"

const helpText = "📚 **Справка по командам:**\n\n" +
	"**`/start`** — создание портфолио. Если портфолио уже есть — предложит создать новое или обновить существующее.\n\n" +
	"**`/update`** — обновление отдельных полей: имя, грейд, город, интро, контакты, фото. " +
	"Работает только после создания портфолио через `/start`.\n\n" +
	"**`/restart`** — сбросить текущую сессию и начать сначала.\n\n" +
	"**`/help`** — показать эту справку."

const tokenHowTo = "📋 Как получить токен:\n" +
	"1. Перейди на https://github.com/settings/tokens\n" +
	"2. «Generate new token» → «Generate new token (classic)»\n" +
	"3. Отметь права: ✅ public_repo (обязательно)\n" +
	"4. Скопируй токен — он показывается только один раз!\n\n" +
	"⚠️ Токен нужен только для создания репозитория из шаблона и записи файлов. " +
	"Мы не храним токен после завершения сессии."

const repoNameHowTo = "📝 Придумай название для репозитория портфолио.\n\n" +
	"🔧 Бот создаст репозиторий из шаблона на твоем GitHub; если он уже существует — обновит его.\n\n" +
	"💡 Примеры: portfolio, izi-portfolio, my-portfolio\n\n" +
	"⭐ Если назовешь репозиторий username.github.io, сайт будет доступен на " +
	"https://username.github.io/ (без суффикса).\n\n" +
	"Введи название репозитория:"

const desyncText = "Похоже, диалог сбился. Попробуй, пожалуйста, начать сначала командой /start."

const publishFailText = "❌ Произошла ошибка при работе с GitHub API:\n\n%s\n\n" +
	"Проверь, пожалуйста:\n" +
	"• Токен корректный и не истек\n" +
	"• У токена есть права public_repo (и workflow для GitHub Actions)\n" +
	"• Репозиторий шаблона существует и доступен\n" +
	"• GitHub username указан правильно"

func successText(username, repo, pagesURL string, warnings []string) string {
	repoURL := fmt.Sprintf("https://github.com/%s/%s", username, repo)
	text := "Готово! 🚀\n\n" +
		fmt.Sprintf("Репозиторий создан: %s\n\n", repoURL) +
		fmt.Sprintf("Твоё портфолио будет доступно по ссылке:\n%s\n\n", pagesURL) +
		"📋 **Обязательные шаги для публикации:**\n\n" +
		fmt.Sprintf("1. Открой %s/settings/pages и в «Build and deployment» выбери Source: **GitHub Actions**\n", repoURL) +
		fmt.Sprintf("2. Проверь статус деплоя: %s/actions — должен запуститься workflow «Deploy Hugo site to Pages»\n", repoURL) +
		"3. Подожди 2–3 минуты после успешного деплоя и открой сайт.\n"
	if len(warnings) > 0 {
		text += "\n⚠️ **Предупреждения:**\n"
		for _, w := range warnings {
			text += "• " + w + "\n"
		}
	}
	text += "\n💡 Чтобы обновить отдельные поля, используй команду /update"
	return text
}

func updateDoneText(username, repo string, lead string, warnings []string) string {
	text := lead + "\n\n"
	for _, w := range warnings {
		text += "• " + w + "\n"
	}
	if len(warnings) > 0 {
		text += "\n"
	}
	text += "⏳ GitHub Actions соберет обновленный сайт через несколько минут.\n" +
		fmt.Sprintf("Проверить статус: https://github.com/%s/%s/actions", username, repo)
	return text
}

func startChoiceReply(username, repo string) Reply {
	return sayMenu(
		fmt.Sprintf("У тебя уже есть портфолио: %s/%s\n\nЧто хочешь сделать?", username, repo),
		btnCreateNew, btnUpdateExisting, btnCancel,
	)
}

func updateMenuReply(text string) Reply {
	return sayMenu(text,
		btnUpdateName, btnUpdateGrade, btnUpdateCity,
		btnUpdateIntro, btnUpdateContacts, btnUpdatePhoto, btnCancel,
	)
}

func contactsMenuReply() Reply {
	return sayMenu("Какой контакт обновить?",
		btnContactEmail, btnContactTelegram, btnContactLinkedIn,
		btnContactDribbble, btnContactBehance, btnContactCV, btnCancel,
	)
}
