// Package dialog implements the conversational intake flow: a state
// machine that walks one user through building a portfolio, plus the
// re-entrant update sub-flow. Transitions are computed without I/O and
// return side-effect descriptors; the engine executes those against the
// injected collaborators afterwards, so the machine itself stays
// deterministic and testable without network mocks.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ruslanshgd/izi-portfolio-bot/portfolio"
	"github.com/ruslanshgd/izi-portfolio-bot/store"
)

// Publisher is the remote-repository collaborator. Implemented by
// githubapi.Publisher; tests inject fakes.
type Publisher interface {
	ApplyProfile(ctx context.Context, token string, profile portfolio.Profile, image []byte) (pagesURL string, warnings []string, err error)
	UpdateField(ctx context.Context, token, owner, repo, field, value string) error
	UploadPhoto(ctx context.Context, token, owner, repo string, image []byte) error
	EnsureWorkflowAndTrigger(ctx context.Context, token, owner, repo string) (created bool, warnings []string)
}

// Options tunes engine policy knobs that the observed source history left
// ambiguous.
type Options struct {
	// ClearTokenAfterPublish wipes the GitHub token once a publish
	// succeeds. Off by default so /update works without re-auth.
	ClearTokenAfterPublish bool
}

// Engine drives the dialog. One transition per incoming message; a
// per-session lock serializes messages of the same user while different
// users proceed in parallel.
type Engine struct {
	sessions  *Sessions
	publisher Publisher
	repoStore store.RepoStore
	opts      Options
}

// NewEngine wires the dialog engine to its collaborators.
func NewEngine(sessions *Sessions, publisher Publisher, repoStore store.RepoStore, opts Options) *Engine {
	return &Engine{
		sessions:  sessions,
		publisher: publisher,
		repoStore: repoStore,
		opts:      opts,
	}
}

// Input sentinels. "-" skips an optional answer; the yes-set repeats a
// sub-record loop; the none-set skips the course collection entirely.
const skipToken = "-"

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "да", "yes", "y":
		return true
	}
	return false
}

func isNone(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "нет", "no", "none":
		return true
	}
	return false
}

// --- Side-effect descriptors ---

type actionKind int

const (
	actNone actionKind = iota
	actPublish
	actApplyFields
	actUploadPhoto
	actForgetRepo
)

type fieldEdit struct {
	field string
	value string
}

type action struct {
	kind    actionKind
	profile portfolio.Profile
	photo   []byte
	edits   []fieldEdit
}

// --- Entry points ---

// Command handles /start, /restart, /help and /update.
func (e *Engine) Command(ctx context.Context, userID int64, cmd string) []Reply {
	sess := e.sessions.Get(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch cmd {
	case "start", "restart":
		return e.cmdStart(userID, sess)
	case "help":
		return []Reply{{Text: helpText, Markdown: true}}
	case "update":
		return e.cmdUpdate(sess)
	}
	return nil
}

// HandleText routes one text message through the state machine.
func (e *Engine) HandleText(ctx context.Context, userID int64, text string) []Reply {
	sess := e.sessions.Get(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	replies, act := e.transitionText(userID, sess, strings.TrimSpace(text))
	if act != nil {
		replies = append(replies, e.execute(ctx, userID, sess, act)...)
	}
	return replies
}

// HandlePhoto routes one photo through the state machine. Photos outside
// a photo-gate state are dropped without a reply to avoid noise when
// unrelated media arrives.
func (e *Engine) HandlePhoto(ctx context.Context, userID int64, photo []byte) []Reply {
	sess := e.sessions.Get(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch {
	case sess.UpdateMode && sess.Step == StepUpdatePhoto:
		if sess.GitHubToken == "" || sess.GitHubUsername == "" || sess.RepoName == "" {
			return []Reply{say("❌ Ошибка: данные репозитория не найдены. Используй /start для создания портфолио.")}
		}
		return e.execute(ctx, userID, sess, &action{kind: actUploadPhoto, photo: photo})
	case sess.Step == StepAuthorPhoto:
		sess.PhotoBytes = photo
		sess.Step = StepCareerCompany
		return []Reply{
			say("Фото получено ✅"),
			say("Давай теперь заполним карьеру.\nУкажи название компании для первого места работы."),
		}
	default:
		return nil
	}
}

// --- Commands ---

func (e *Engine) cmdStart(userID int64, sess *Session) []Reply {
	// Full restart: leave update mode no matter where it was.
	sess.UpdateMode = false
	sess.UpdateField = ""
	sess.PendingName = ""

	replies := []Reply{{Text: welcomeText, Markdown: true}}

	if info, found, err := e.repoStore.Get(userID); err == nil && found {
		sess.GitHubUsername = info.GitHubUsername
		sess.RepoName = info.RepoName
		sess.Step = StepStartChoice
		return append(replies, startChoiceReply(info.GitHubUsername, info.RepoName))
	}
	return append(replies, e.startDialog(sess))
}

func (e *Engine) startDialog(sess *Session) Reply {
	if sess.GitHubUsername != "" && sess.RepoName != "" {
		sess.Step = StepGitHubToken
		return say(fmt.Sprintf(
			"У тебя уже есть портфолио: %s/%s\n\nДля создания нового портфолио нужен GitHub токен.\nПришли GitHub Personal Access Token:",
			sess.GitHubUsername, sess.RepoName))
	}
	sess.Step = StepGitHubUsername
	return say("Сначала введи, пожалуйста, свой GitHub username:")
}

func (e *Engine) cmdUpdate(sess *Session) []Reply {
	if sess.GitHubUsername == "" || sess.RepoName == "" {
		return []Reply{say("❌ Сначала нужно создать портфолио через команду /start.\n\n" +
			"Команда /update позволяет обновлять отдельные поля в уже созданном портфолио.")}
	}
	if sess.GitHubToken == "" {
		sess.Step = StepUpdateNeedToken
		return []Reply{say("Для обновления портфолио нужен GitHub токен.\n\nПришли GitHub Personal Access Token:")}
	}
	sess.UpdateMode = true
	sess.Step = StepUpdateMenu
	return []Reply{updateMenuReply("🔄 Что хочешь обновить?\n\nВыбери пункт из меню:")}
}

// --- Text transitions ---

func (e *Engine) transitionText(userID int64, sess *Session, text string) ([]Reply, *action) {
	// The update token request fires before update mode is active.
	if sess.Step == StepUpdateNeedToken {
		sess.GitHubToken = text
		sess.UpdateMode = true
		sess.Step = StepUpdateMenu
		return []Reply{updateMenuReply("Токен получен ✅\n\n🔄 Что хочешь обновить?\n\nВыбери пункт из меню:")}, nil
	}
	if sess.UpdateMode {
		return e.transitionUpdate(sess, text)
	}

	switch sess.Step {
	case StepStartChoice:
		return e.startChoice(userID, sess, text)

	case StepGitHubUsername:
		return e.captureUsername(userID, sess, text)

	case StepGitHubUsernameChoice:
		return e.usernameChoice(sess, text)

	case StepGitHubToken:
		sess.GitHubToken = text
		if sess.RepoName != "" {
			sess.Step = StepAuthorName
			return []Reply{say("Отлично. Теперь давай перейдём к профилю.\n\nКак тебя зовут (имя)?")}, nil
		}
		sess.Step = StepRepoName
		return []Reply{say("Токен получен ✅\n\n" + repoNameHowTo)}, nil

	case StepRepoName:
		sess.RepoName = text
		sess.Step = StepGitHubToken
		return []Reply{say(fmt.Sprintf("Репозиторий будет называться: %s\n\nТеперь пришли GitHub Personal Access Token.\n\n%s", text, tokenHowTo))}, nil

	case StepAuthorName:
		sess.Profile["author_name"] = text
		sess.Step = StepAuthorSurname
		return []Reply{say("Фамилия:")}, nil

	case StepAuthorSurname:
		sess.Profile["author_surname"] = text
		sess.Step = StepAuthorGrade
		return []Reply{say("Твой грейд / роль (например, «Senior Product Designer»):")}, nil

	case StepAuthorGrade:
		sess.Profile["author_grade"] = text
		sess.Step = StepAuthorCity
		return []Reply{say("Город, в котором ты сейчас живёшь:")}, nil

	case StepAuthorCity:
		sess.Profile["author_city"] = text
		sess.Step = StepAuthorIntro
		return []Reply{say("Напиши, пожалуйста, краткое интро (2–4 предложения) о себе. Оно попадёт в hero-блок на главной странице.")}, nil

	case StepAuthorIntro:
		sess.Profile["author_intro"] = text
		sess.Step = StepContactEmail
		return []Reply{say("Теперь контакты.\n\nУкажи e-mail (или напиши «-», если не хочешь его добавлять):")}, nil

	case StepContactEmail:
		return e.captureContact(sess, text, "author_email", StepContactTelegram,
			"Ссылка на Telegram (например, https://t.me/username) или «-», если не нужно:")
	case StepContactTelegram:
		return e.captureContact(sess, text, "author_telegram", StepContactLinkedIn,
			"Ссылка на LinkedIn (если есть) или «-», если не нужно:")
	case StepContactLinkedIn:
		return e.captureContact(sess, text, "author_linkedin", StepContactDribbble,
			"Ссылка на Dribbble (если есть) или «-», если не нужно:")
	case StepContactDribbble:
		return e.captureContact(sess, text, "author_dribbble", StepContactBehance,
			"Ссылка на Behance (если есть) или «-», если не нужно:")
	case StepContactBehance:
		return e.captureContact(sess, text, "author_behance", StepContactCV,
			"Ссылка на резюме / CV (Google Drive, Notion и т.п.) или «-», если не нужно:")
	case StepContactCV:
		return e.captureContact(sess, text, "author_cv", StepAuthorPhoto,
			"Теперь пришли, пожалуйста, фотографию, которую хочешь использовать в портфолио.")

	case StepAuthorPhoto, StepUpdatePhoto:
		// Photo gates: text is ignored without a re-prompt.
		return nil, nil

	case StepCareerCompany:
		sess.PendingCareer = portfolio.CareerItem{Company: text}
		sess.Step = StepCareerRole
		return []Reply{say("Твоя роль / позиция в этой компании:")}, nil

	case StepCareerRole:
		sess.PendingCareer.Role = text
		sess.Step = StepCareerLocation
		return []Reply{say("Город / локация (можно оставить пустым, отправив «-»):")}, nil

	case StepCareerLocation:
		if text != skipToken {
			sess.PendingCareer.Location = text
		}
		sess.Step = StepCareerStart
		return []Reply{say("Дата начала работы (например, 2021-05 или просто 2021):")}, nil

	case StepCareerStart:
		sess.PendingCareer.Start = text
		sess.Step = StepCareerEnd
		return []Reply{say("Дата окончания работы (например, 2023-10) или напиши «по настоящее время»:")}, nil

	case StepCareerEnd:
		sess.PendingCareer.End = text
		sess.Step = StepCareerDescription
		return []Reply{say("Опиши кратко, чем ты занимался(ась) и каких результатов добился(ась). Можно несколькими предложениями.")}, nil

	case StepCareerDescription:
		sess.PendingCareer.Description = text
		sess.CareerItems = append(sess.CareerItems, sess.PendingCareer)
		sess.PendingCareer = portfolio.CareerItem{}
		sess.Step = StepCareerMore
		return []Reply{say("Добавить ещё одно место работы? Напиши «да» или «нет».")}, nil

	case StepCareerMore:
		if isYes(text) {
			sess.Step = StepCareerCompany
			return []Reply{say("Окей, укажи название следующей компании:")}, nil
		}
		sess.Step = StepUniversityName
		return []Reply{say("Перейдём к образованию.\nСначала университеты. Укажи название первого университета:")}, nil

	case StepUniversityName:
		sess.PendingUniversity = portfolio.University{Name: text}
		sess.Step = StepUniversityYear
		return []Reply{say("Год окончания (например, 2021):")}, nil

	case StepUniversityYear:
		sess.PendingUniversity.Year = text
		sess.Step = StepUniversitySpeciality
		return []Reply{say("Специальность:")}, nil

	case StepUniversitySpeciality:
		sess.PendingUniversity.Speciality = text
		sess.Step = StepUniversityDegree
		return []Reply{say("Степень (бакалавр, магистр и т.п.) или «-», если не нужно:")}, nil

	case StepUniversityDegree:
		if text != skipToken {
			sess.PendingUniversity.Degree = text
		}
		sess.Step = StepUniversityNote
		return []Reply{say("Дополнительная приметка (например, средний балл) или «-», если не нужно:")}, nil

	case StepUniversityNote:
		if text != skipToken {
			sess.PendingUniversity.Note = text
		}
		sess.Universities = append(sess.Universities, sess.PendingUniversity)
		sess.PendingUniversity = portfolio.University{}
		sess.Step = StepUniversityMore
		return []Reply{say("Добавить ещё один университет? «да» или «нет»:")}, nil

	case StepUniversityMore:
		if isYes(text) {
			sess.Step = StepUniversityName
			return []Reply{say("Название следующего университета:")}, nil
		}
		sess.Step = StepCourseTitle
		return []Reply{say("Теперь курсы. Укажи название первого курса (или напиши «нет», если курсов не было):")}, nil

	case StepCourseTitle:
		if isNone(text) {
			return e.finalize(sess)
		}
		sess.PendingCourse = portfolio.Course{Title: text}
		sess.Step = StepCourseURL
		return []Reply{say("Ссылка на страницу курса (если есть) или «-», если не нужно:")}, nil

	case StepCourseURL:
		if text != skipToken {
			sess.PendingCourse.URL = text
		}
		sess.Step = StepCourseProvider
		return []Reply{say("Организатор / провайдер курса (например, название школы):")}, nil

	case StepCourseProvider:
		sess.PendingCourse.Provider = text
		sess.Step = StepCourseStatus
		return []Reply{say("Год окончания курса (например, 2024) или статус (например, «прохожу сейчас»):")}, nil

	case StepCourseStatus:
		// Year and status are not told apart; the raw answer is kept.
		sess.PendingCourse.Status = text
		sess.Step = StepCourseCertificate
		return []Reply{say("Ссылка на сертификат (если есть) или «-», если не нужно:")}, nil

	case StepCourseCertificate:
		if text != skipToken {
			sess.PendingCourse.Certificate = text
		}
		sess.Courses = append(sess.Courses, sess.PendingCourse)
		sess.PendingCourse = portfolio.Course{}
		sess.Step = StepCourseMore
		return []Reply{say("Добавить ещё один курс? «да» или «нет»:")}, nil

	case StepCourseMore:
		if isYes(text) {
			sess.Step = StepCourseTitle
			return []Reply{say("Название следующего курса:")}, nil
		}
		return e.finalize(sess)
	}

	// Unknown cursor: never crash, always offer the way out.
	log.Printf("[Dialog] Desynchronized session for %d: step=%q", userID, sess.Step)
	return []Reply{say(desyncText)}, nil
}

func (e *Engine) captureContact(sess *Session, text, field string, next Step, prompt string) ([]Reply, *action) {
	if text != skipToken {
		sess.Profile[field] = text
	}
	sess.Step = next
	return []Reply{say(prompt)}, nil
}

// --- Branch states ---

func (e *Engine) startChoice(userID int64, sess *Session, text string) ([]Reply, *action) {
	switch text {
	case btnCreateNew:
		sess.GitHubToken = ""
		sess.GitHubUsername = ""
		sess.RepoName = ""
		replies := []Reply{sayPlain("Начинаем создание нового портфолио...")}
		replies = append(replies, e.startDialog(sess))
		return replies, &action{kind: actForgetRepo}
	case btnUpdateExisting:
		sess.Step = StepGitHubUsername
		return []Reply{sayPlain("Используй команду /update для обновления полей.")}, nil
	case btnCancel:
		sess.Step = StepGitHubUsername
		return []Reply{sayPlain("Отменено.")}, nil
	}
	// Menu state: wait for a valid choice.
	return nil, nil
}

func (e *Engine) captureUsername(userID int64, sess *Session, text string) ([]Reply, *action) {
	sess.GitHubUsername = text

	if info, found, err := e.repoStore.Get(userID); err == nil && found && info.GitHubUsername == text {
		sess.RepoName = info.RepoName
		sess.Step = StepGitHubUsernameChoice
		return []Reply{sayMenu(
			fmt.Sprintf("У тебя уже есть портфолио: %s/%s\n\nЧто хочешь сделать?", text, info.RepoName),
			btnUseExisting, btnNewRepo, btnCancel,
		)}, nil
	}

	sess.Step = StepGitHubToken
	return []Reply{say("Теперь пришли GitHub Personal Access Token.\n\n" + tokenHowTo)}, nil
}

func (e *Engine) usernameChoice(sess *Session, text string) ([]Reply, *action) {
	switch text {
	case btnUseExisting:
		sess.Step = StepGitHubToken
		return []Reply{sayPlain(fmt.Sprintf(
			"Используем существующий репозиторий: %s/%s\n\nДля обновления нужен GitHub токен.\n\n%s\n\nПришли токен:",
			sess.GitHubUsername, sess.RepoName, tokenHowTo))}, nil
	case btnNewRepo:
		sess.RepoName = ""
		sess.Step = StepRepoName
		return []Reply{sayPlain("Создаем новый репозиторий.\n\n" + repoNameHowTo)}, nil
	case btnCancel:
		sess.GitHubUsername = ""
		sess.RepoName = ""
		sess.Step = StepGitHubUsername
		return []Reply{sayPlain("Отменено. Введи GitHub username заново:")}, nil
	}
	return nil, nil
}

// --- Finalization ---

// finalize assembles the Profile and hands it to the publish collaborator.
// On any assembly failure the collected answers and the cursor are left
// untouched so nothing the user typed is lost.
func (e *Engine) finalize(sess *Session) ([]Reply, *action) {
	if sess.GitHubToken == "" || sess.GitHubUsername == "" || sess.RepoName == "" {
		return []Reply{say("Не хватает данных GitHub (username / токен / имя репозитория). Попробуй начать сначала командой /start.")}, nil
	}
	if len(sess.PhotoBytes) == 0 {
		return []Reply{say("Похоже, ты не отправил фотографию. Сейчас она обязательна для генерации портфолио.")}, nil
	}

	profile := buildProfile(sess)
	if err := profile.Validate(); err != nil {
		var mf *portfolio.MissingFieldError
		field := "?"
		if errors.As(err, &mf) {
			field = mf.Field
		}
		return []Reply{say(fmt.Sprintf(
			"Не удалось собрать профиль — не хватает поля %s. Попробуй начать сначала командой /start.", field))}, nil
	}

	return []Reply{say("Формирую репозиторий на GitHub и запускаю сборку Hugo…")},
		&action{kind: actPublish, profile: profile, photo: sess.PhotoBytes}
}

// buildProfile snapshots the session into an immutable Profile. Slices are
// copied so collaborators never hold live references into the session.
func buildProfile(sess *Session) portfolio.Profile {
	return portfolio.Profile{
		GitHubUsername: sess.GitHubUsername,
		RepoName:       sess.RepoName,
		AuthorName:     sess.Profile["author_name"],
		AuthorSurname:  sess.Profile["author_surname"],
		AuthorGrade:    sess.Profile["author_grade"],
		AuthorCity:     sess.Profile["author_city"],
		AuthorIntro:    sess.Profile["author_intro"],
		AuthorImage:    portfolio.DefaultImagePath,
		AuthorEmail:    sess.Profile["author_email"],
		AuthorTelegram: sess.Profile["author_telegram"],
		AuthorLinkedIn: sess.Profile["author_linkedin"],
		AuthorDribbble: sess.Profile["author_dribbble"],
		AuthorBehance:  sess.Profile["author_behance"],
		AuthorCV:       sess.Profile["author_cv"],
		CareerItems:    append([]portfolio.CareerItem(nil), sess.CareerItems...),
		Universities:   append([]portfolio.University(nil), sess.Universities...),
		Courses:        append([]portfolio.Course(nil), sess.Courses...),
	}
}

// --- Side-effect execution ---

func (e *Engine) execute(ctx context.Context, userID int64, sess *Session, act *action) []Reply {
	switch act.kind {
	case actForgetRepo:
		if err := e.repoStore.Delete(userID); err != nil {
			log.Printf("[Dialog] Failed to delete repo record for %d: %v", userID, err)
		}
		return nil

	case actPublish:
		return e.executePublish(ctx, userID, sess, act)

	case actApplyFields:
		return e.executeFieldUpdate(ctx, sess, act)

	case actUploadPhoto:
		return e.executePhotoUpdate(ctx, sess, act)
	}
	return nil
}

func (e *Engine) executePublish(ctx context.Context, userID int64, sess *Session, act *action) []Reply {
	pagesURL, warnings, err := e.publisher.ApplyProfile(ctx, sess.GitHubToken, act.profile, act.photo)
	if err != nil {
		log.Printf("[Dialog] Publish failed for %d: %v", userID, err)
		// Session state survives intact so the user can retry.
		return []Reply{say(fmt.Sprintf(publishFailText, err))}
	}

	if err := e.repoStore.Put(userID, store.RepoInfo{
		GitHubUsername: act.profile.GitHubUsername,
		RepoName:       act.profile.RepoName,
	}); err != nil {
		log.Printf("[Dialog] Failed to persist repo record for %d: %v", userID, err)
	}

	text := successText(act.profile.GitHubUsername, act.profile.RepoName, pagesURL, warnings)

	sess.resetCollected()
	if e.opts.ClearTokenAfterPublish {
		sess.GitHubToken = ""
	}
	log.Printf("[Dialog] Published portfolio for %d: %s/%s",
		userID, act.profile.GitHubUsername, act.profile.RepoName)
	return []Reply{{Text: text, Markdown: true, RemoveKeyboard: true}}
}
