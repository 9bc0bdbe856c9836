package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func textUpdate(chatType, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: 1, Type: chatType},
	}}
}

func commandUpdate(cmd string) tgbotapi.Update {
	text := "/" + cmd
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
		Chat:     &tgbotapi.Chat{ID: 1, Type: "private"},
	}}
}

func photoUpdate(chatType string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}},
		Chat:  &tgbotapi.Chat{ID: 1, Type: chatType},
	}}
}

func TestRouterDispatchCommand(t *testing.T) {
	r := NewRouter()
	var got string
	r.AddCommand("start", func(_ *tgbotapi.BotAPI, u tgbotapi.Update) { got = "start" })
	r.AddMessage("all", func(_ *tgbotapi.BotAPI, u tgbotapi.Update) { got = "message" })

	if !r.Dispatch(nil, commandUpdate("start")) {
		t.Fatal("command must be dispatched")
	}
	if got != "start" {
		t.Fatalf("got %q", got)
	}
}

func TestRouterUnknownCommandFallsThrough(t *testing.T) {
	r := NewRouter()
	var got string
	r.AddCommand("start", func(_ *tgbotapi.BotAPI, u tgbotapi.Update) { got = "start" })
	r.AddMessage("all", func(_ *tgbotapi.BotAPI, u tgbotapi.Update) { got = "message" })

	r.Dispatch(nil, commandUpdate("bogus"))
	if got != "message" {
		t.Fatalf("unknown command must reach message handlers, got %q", got)
	}
}

func TestRouterPhotoBeforeText(t *testing.T) {
	r := NewRouter()
	var got string
	r.AddPhoto("private", func(_ *tgbotapi.BotAPI, u tgbotapi.Update) { got = "photo" })
	r.AddMessage("private", func(_ *tgbotapi.BotAPI, u tgbotapi.Update) { got = "text" })

	r.Dispatch(nil, photoUpdate("private"))
	if got != "photo" {
		t.Fatalf("got %q", got)
	}
}

func TestRouterChatTypeFilter(t *testing.T) {
	r := NewRouter()
	called := false
	r.AddMessage("private", func(_ *tgbotapi.BotAPI, u tgbotapi.Update) { called = true })

	if r.Dispatch(nil, textUpdate("group", "hi")) {
		t.Fatal("group message must not match the private filter")
	}
	if !r.Dispatch(nil, textUpdate("private", "hi")) {
		t.Fatal("private message must match")
	}
	if !called {
		t.Fatal("handler not invoked")
	}
}

func TestRouterNonMessageUpdateIgnored(t *testing.T) {
	r := NewRouter()
	r.AddMessage("all", func(_ *tgbotapi.BotAPI, u tgbotapi.Update) { t.Fatal("must not dispatch") })
	if r.Dispatch(nil, tgbotapi.Update{}) {
		t.Fatal("empty update must not dispatch")
	}
}
