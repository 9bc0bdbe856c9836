package dialog

import (
	"context"
	"fmt"
	"log"
)

// Human labels for the fields reachable from the update menu, used in the
// confirmation messages.
var updateFieldLabels = map[string]string{
	"author_grade":    "Грейд / роль",
	"author_city":     "Город",
	"author_intro":    "Интро",
	"author_email":    "Email",
	"author_telegram": "Telegram",
	"author_linkedin": "LinkedIn",
	"author_dribbble": "Dribbble",
	"author_behance":  "Behance",
	"author_cv":       "CV",
}

func isContactField(field string) bool {
	switch field {
	case "author_email", "author_telegram", "author_linkedin",
		"author_dribbble", "author_behance", "author_cv":
		return true
	}
	return false
}

// transitionUpdate handles every text message while the update sub-flow is
// active. The cancel button works from any of its states.
func (e *Engine) transitionUpdate(sess *Session, text string) ([]Reply, *action) {
	if text == btnCancel {
		return e.leaveUpdate(sess, "Обновление отменено."), nil
	}

	switch sess.Step {
	case StepUpdateMenu:
		return e.updateMenuChoice(sess, text)

	case StepUpdateContactsMenu:
		return e.contactsMenuChoice(sess, text)

	case StepUpdateValue:
		if sess.UpdateField == "author_name" {
			sess.PendingName = text
			sess.Step = StepUpdateSurname
			return []Reply{say("Теперь введи новую фамилию:")}, nil
		}
		value := text
		if isContactField(sess.UpdateField) && text == skipToken {
			value = ""
		}
		return nil, &action{kind: actApplyFields, edits: []fieldEdit{{field: sess.UpdateField, value: value}}}

	case StepUpdateSurname:
		return nil, &action{kind: actApplyFields, edits: []fieldEdit{
			{field: "author_name", value: sess.PendingName},
			{field: "author_surname", value: text},
		}}

	case StepUpdatePhoto:
		return []Reply{say("Жду фотографию. Чтобы выйти, нажми «" + btnCancel + "».")}, nil
	}

	log.Printf("[Dialog] Desynchronized update session: step=%q", sess.Step)
	return e.leaveUpdate(sess, desyncText), nil
}

func (e *Engine) updateMenuChoice(sess *Session, text string) ([]Reply, *action) {
	switch text {
	case btnUpdateName:
		sess.UpdateField = "author_name"
		sess.Step = StepUpdateValue
		return []Reply{sayPlain("Введи новое имя:")}, nil
	case btnUpdateGrade:
		sess.UpdateField = "author_grade"
		sess.Step = StepUpdateValue
		return []Reply{sayPlain("Введи новый грейд / роль:")}, nil
	case btnUpdateCity:
		sess.UpdateField = "author_city"
		sess.Step = StepUpdateValue
		return []Reply{sayPlain("Введи новый город:")}, nil
	case btnUpdateIntro:
		sess.UpdateField = "author_intro"
		sess.Step = StepUpdateValue
		return []Reply{sayPlain("Введи новое интро:")}, nil
	case btnUpdateContacts:
		sess.Step = StepUpdateContactsMenu
		return []Reply{contactsMenuReply()}, nil
	case btnUpdatePhoto:
		sess.Step = StepUpdatePhoto
		return []Reply{sayPlain("Пришли новую фотографию:")}, nil
	}
	// Menu state: wait for a valid choice.
	return nil, nil
}

func (e *Engine) contactsMenuChoice(sess *Session, text string) ([]Reply, *action) {
	var field string
	switch text {
	case btnContactEmail:
		field = "author_email"
	case btnContactTelegram:
		field = "author_telegram"
	case btnContactLinkedIn:
		field = "author_linkedin"
	case btnContactDribbble:
		field = "author_dribbble"
	case btnContactBehance:
		field = "author_behance"
	case btnContactCV:
		field = "author_cv"
	default:
		return nil, nil
	}
	sess.UpdateField = field
	sess.Step = StepUpdateValue
	return []Reply{sayPlain(fmt.Sprintf(
		"Введи новое значение для «%s» (или «-», чтобы удалить контакт):", updateFieldLabels[field]))}, nil
}

// leaveUpdate resets the update sub-flow and returns the farewell reply.
func (e *Engine) leaveUpdate(sess *Session, text string) []Reply {
	sess.UpdateMode = false
	sess.UpdateField = ""
	sess.PendingName = ""
	sess.Step = StepGitHubUsername
	return []Reply{sayPlain(text)}
}

func (e *Engine) executeFieldUpdate(ctx context.Context, sess *Session, act *action) []Reply {
	owner, repo := sess.GitHubUsername, sess.RepoName
	if sess.GitHubToken == "" || owner == "" || repo == "" {
		return e.leaveUpdate(sess, "❌ Данные репозитория не найдены. Используй /start для создания портфолио.")
	}

	for _, edit := range act.edits {
		if err := e.publisher.UpdateField(ctx, sess.GitHubToken, owner, repo, edit.field, edit.value); err != nil {
			log.Printf("[Dialog] Field update failed for %s/%s (%s): %v", owner, repo, edit.field, err)
			// Update state survives so the user can retry or cancel.
			return []Reply{say(fmt.Sprintf("❌ Ошибка при обновлении: %v\n\nПопробуй ещё раз или нажми «%s».", err, btnCancel))}
		}
	}

	_, warnings := e.publisher.EnsureWorkflowAndTrigger(ctx, sess.GitHubToken, owner, repo)

	var lead string
	switch {
	case len(act.edits) == 2:
		lead = "✅ Имя и фамилия обновлены!"
	case act.edits[0].value == "":
		lead = fmt.Sprintf("✅ Поле «%s» удалено!", updateFieldLabels[act.edits[0].field])
	default:
		lead = fmt.Sprintf("✅ Поле «%s» обновлено!", updateFieldLabels[act.edits[0].field])
	}

	sess.UpdateMode = false
	sess.UpdateField = ""
	sess.PendingName = ""
	sess.Step = StepGitHubUsername
	return []Reply{{Text: updateDoneText(owner, repo, lead, warnings), RemoveKeyboard: true}}
}

func (e *Engine) executePhotoUpdate(ctx context.Context, sess *Session, act *action) []Reply {
	owner, repo := sess.GitHubUsername, sess.RepoName

	if err := e.publisher.UploadPhoto(ctx, sess.GitHubToken, owner, repo, act.photo); err != nil {
		log.Printf("[Dialog] Photo update failed for %s/%s: %v", owner, repo, err)
		return []Reply{say(fmt.Sprintf("❌ Ошибка при обновлении фото: %v\n\nПопробуй ещё раз или нажми «%s».", err, btnCancel))}
	}

	_, warnings := e.publisher.EnsureWorkflowAndTrigger(ctx, sess.GitHubToken, owner, repo)

	sess.UpdateMode = false
	sess.UpdateField = ""
	sess.PendingName = ""
	sess.Step = StepGitHubUsername
	return []Reply{{Text: updateDoneText(owner, repo, "✅ Фото обновлено!", warnings), RemoveKeyboard: true}}
}
