package dialog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ruslanshgd/izi-portfolio-bot/store"
)

// seedPublished prepares a session that looks like a finished publish:
// repo record persisted, token still in memory.
func seedPublished(t *testing.T, e *Engine, repos store.RepoStore, user int64) *Session {
	t.Helper()
	if err := repos.Put(user, store.RepoInfo{GitHubUsername: "alice", RepoName: "portfolio"}); err != nil {
		t.Fatal(err)
	}
	sess := e.sessions.Get(user)
	sess.GitHubUsername = "alice"
	sess.RepoName = "portfolio"
	sess.GitHubToken = "tok"
	return sess
}

func TestUpdateRequiresExistingPortfolio(t *testing.T) {
	e, _, _ := newTestEngine(t)
	replies := e.Command(context.Background(), 200, "update")
	if !strings.Contains(joined(replies), "/start") {
		t.Fatalf("want refusal pointing to /start, got:\n%s", joined(replies))
	}
}

func TestUpdateAsksForTokenWhenMissing(t *testing.T) {
	e, _, repos := newTestEngine(t)
	const user = int64(201)
	sess := seedPublished(t, e, repos, user)
	sess.GitHubToken = ""

	ctx := context.Background()
	e.Command(ctx, user, "update")
	if sess.Step != StepUpdateNeedToken {
		t.Fatalf("step = %q", sess.Step)
	}

	sendAll(t, e, user, "fresh-token")
	if !sess.UpdateMode || sess.Step != StepUpdateMenu {
		t.Fatalf("token must open the menu: mode=%v step=%q", sess.UpdateMode, sess.Step)
	}
	if sess.GitHubToken != "fresh-token" {
		t.Fatalf("token = %q", sess.GitHubToken)
	}
}

func TestUpdateCityField(t *testing.T) {
	e, pub, repos := newTestEngine(t)
	const user = int64(202)
	sess := seedPublished(t, e, repos, user)

	ctx := context.Background()
	e.Command(ctx, user, "update")
	sendAll(t, e, user, btnUpdateCity)
	last := sendAll(t, e, user, "Paris")

	if len(pub.fieldCalls) != 1 {
		t.Fatalf("field calls: %v", pub.fieldCalls)
	}
	call := pub.fieldCalls[0]
	if call.owner != "alice" || call.repo != "portfolio" || call.field != "author_city" || call.value != "Paris" {
		t.Fatalf("call: %+v", call)
	}
	if pub.triggerCalls != 1 {
		t.Fatalf("workflow triggers: %d", pub.triggerCalls)
	}
	if sess.UpdateMode || sess.Step != StepGitHubUsername {
		t.Fatalf("update mode must end: mode=%v step=%q", sess.UpdateMode, sess.Step)
	}
	if !strings.Contains(joined(last), "Город") {
		t.Fatalf("confirmation must name the field:\n%s", joined(last))
	}
}

func TestUpdateNameIssuesTwoFieldEdits(t *testing.T) {
	e, pub, repos := newTestEngine(t)
	const user = int64(203)
	seedPublished(t, e, repos, user)

	ctx := context.Background()
	e.Command(ctx, user, "update")
	sendAll(t, e, user, btnUpdateName, "Анна")
	last := sendAll(t, e, user, "Ли")

	if len(pub.fieldCalls) != 2 {
		t.Fatalf("field calls: %v", pub.fieldCalls)
	}
	if pub.fieldCalls[0].field != "author_name" || pub.fieldCalls[0].value != "Анна" {
		t.Fatalf("first edit: %+v", pub.fieldCalls[0])
	}
	if pub.fieldCalls[1].field != "author_surname" || pub.fieldCalls[1].value != "Ли" {
		t.Fatalf("second edit: %+v", pub.fieldCalls[1])
	}
	if !strings.Contains(joined(last), "Имя и фамилия") {
		t.Fatalf("confirmation:\n%s", joined(last))
	}
}

func TestUpdateContactClearWithDash(t *testing.T) {
	e, pub, repos := newTestEngine(t)
	const user = int64(204)
	seedPublished(t, e, repos, user)

	ctx := context.Background()
	e.Command(ctx, user, "update")
	sendAll(t, e, user, btnUpdateContacts, btnContactEmail)
	last := sendAll(t, e, user, "-")

	if len(pub.fieldCalls) != 1 {
		t.Fatalf("field calls: %v", pub.fieldCalls)
	}
	if pub.fieldCalls[0].field != "author_email" || pub.fieldCalls[0].value != "" {
		t.Fatalf("dash must clear the contact: %+v", pub.fieldCalls[0])
	}
	if !strings.Contains(joined(last), "удалено") {
		t.Fatalf("confirmation:\n%s", joined(last))
	}
}

func TestUpdateIntroDashIsLiteralValue(t *testing.T) {
	e, pub, repos := newTestEngine(t)
	const user = int64(205)
	seedPublished(t, e, repos, user)

	ctx := context.Background()
	e.Command(ctx, user, "update")
	sendAll(t, e, user, btnUpdateIntro)
	sendAll(t, e, user, "-")

	// Only contacts treat "-" as removal.
	if len(pub.fieldCalls) != 1 || pub.fieldCalls[0].value != "-" {
		t.Fatalf("field calls: %+v", pub.fieldCalls)
	}
}

func TestUpdateCancelFromAnyState(t *testing.T) {
	e, pub, repos := newTestEngine(t)
	const user = int64(206)
	sess := seedPublished(t, e, repos, user)

	ctx := context.Background()
	e.Command(ctx, user, "update")
	sendAll(t, e, user, btnUpdateGrade) // now waiting for the value
	last := sendAll(t, e, user, btnCancel)

	if sess.UpdateMode || sess.Step != StepGitHubUsername {
		t.Fatalf("cancel must leave update mode: mode=%v step=%q", sess.UpdateMode, sess.Step)
	}
	if len(pub.fieldCalls) != 0 {
		t.Fatalf("no edits expected: %v", pub.fieldCalls)
	}
	if !strings.Contains(joined(last), "отменено") {
		t.Fatalf("cancel reply:\n%s", joined(last))
	}
}

func TestUpdateFieldFailureKeepsUpdateMode(t *testing.T) {
	e, pub, repos := newTestEngine(t)
	const user = int64(207)
	sess := seedPublished(t, e, repos, user)
	pub.fieldErr = errors.New("409 conflict")

	ctx := context.Background()
	e.Command(ctx, user, "update")
	sendAll(t, e, user, btnUpdateCity)
	last := sendAll(t, e, user, "Paris")

	if !sess.UpdateMode {
		t.Fatal("update mode must survive a failed edit")
	}
	if !strings.Contains(joined(last), "Ошибка") {
		t.Fatalf("error reply:\n%s", joined(last))
	}
	if len(pub.fieldCalls) != 1 {
		t.Fatalf("failed attempt must still be recorded: %+v", pub.fieldCalls)
	}

	// Retry works in place.
	pub.fieldErr = nil
	sendAll(t, e, user, "Paris")
	if len(pub.fieldCalls) != 2 || pub.fieldCalls[1].value != "Paris" {
		t.Fatalf("retry edit: %+v", pub.fieldCalls)
	}
	if sess.UpdateMode {
		t.Fatal("successful retry must end update mode")
	}
}

func TestUpdatePhotoFlow(t *testing.T) {
	e, pub, repos := newTestEngine(t)
	const user = int64(208)
	sess := seedPublished(t, e, repos, user)

	ctx := context.Background()
	e.Command(ctx, user, "update")
	sendAll(t, e, user, btnUpdatePhoto)
	if sess.Step != StepUpdatePhoto {
		t.Fatalf("step = %q", sess.Step)
	}

	replies := e.HandlePhoto(ctx, user, []byte("new-jpeg"))
	if pub.photoCalls != 1 {
		t.Fatalf("photo calls: %d", pub.photoCalls)
	}
	if pub.triggerCalls != 1 {
		t.Fatalf("workflow triggers: %d", pub.triggerCalls)
	}
	if sess.UpdateMode || sess.Step != StepGitHubUsername {
		t.Fatalf("update mode must end: mode=%v step=%q", sess.UpdateMode, sess.Step)
	}
	if !strings.Contains(joined(replies), "Фото обновлено") {
		t.Fatalf("confirmation:\n%s", joined(replies))
	}
}

func TestUpdatePhotoTextNudgesForPhoto(t *testing.T) {
	e, _, repos := newTestEngine(t)
	const user = int64(209)
	seedPublished(t, e, repos, user)

	ctx := context.Background()
	e.Command(ctx, user, "update")
	sendAll(t, e, user, btnUpdatePhoto)
	last := sendAll(t, e, user, "это не фото")

	if !strings.Contains(joined(last), "фотографию") {
		t.Fatalf("nudge reply:\n%s", joined(last))
	}
}
