package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/atomic"

	"github.com/ruslanshgd/izi-portfolio-bot/dialog"
)

// updateTimeout bounds one update's processing, including the GitHub calls
// a finalization makes.
const updateTimeout = 3 * time.Minute

// maxPhotoBytes caps the author photo download. Telegram photos are
// re-encoded server-side and stay well under this.
const maxPhotoBytes = 20 << 20

// Bot wires the Telegram transport to the dialog engine: it polls for
// updates, routes them, and maps engine replies back onto messages with
// reply keyboards.
type Bot struct {
	// Config is the bot configuration.
	Config *Config
	// API is the underlying low-level Bot API client.
	API *tgbotapi.BotAPI
	// Router handles command/photo/message dispatch.
	Router *Router

	engine   *dialog.Engine
	pipeline *MiddlewarePipeline
	http     *http.Client

	updatesHandled  atomic.Int64
	panicsRecovered atomic.Int64
}

// NewBot creates the bot from configuration and registers the dialog
// handlers.
func NewBot(config *Config, engine *dialog.Engine) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = config.Debug

	router := NewRouter()
	router.debug = config.Debug

	b := &Bot{
		Config:   config,
		API:      api,
		Router:   router,
		engine:   engine,
		pipeline: NewMiddlewarePipeline(),
		http:     &http.Client{Timeout: 60 * time.Second},
	}
	b.registerHandlers()

	if config.Debug {
		b.Use(requestLogMiddleware)
	}
	return b, nil
}

// Use registers a global middleware (onion model).
// Middlewares execute in registration order, wrapping the handler dispatch.
func (b *Bot) Use(mw MiddlewareFunc) {
	b.pipeline.Use(mw)
}

func (b *Bot) registerHandlers() {
	for _, cmd := range []string{"start", "restart", "help", "update"} {
		cmd := cmd
		b.Router.AddCommand(cmd, func(_ *tgbotapi.BotAPI, u tgbotapi.Update) {
			b.handleCommand(cmd, u)
		})
	}
	b.Router.AddPhoto("private", func(_ *tgbotapi.BotAPI, u tgbotapi.Update) {
		b.handlePhoto(u)
	})
	b.Router.AddMessage("private", func(_ *tgbotapi.BotAPI, u tgbotapi.Update) {
		b.handleText(u)
	})
}

// Run starts polling and blocks until SIGINT/SIGTERM.
func (b *Bot) Run() error {
	log.Printf("[Bot] %s", b.Config.Summary())
	log.Printf("[Bot] Authorized on account @%s", b.API.Self.UserName)

	lock, err := acquirePollingInstanceLock(b.Config.BotToken)
	if err != nil {
		return fmt.Errorf("polling instance lock: %w", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Printf("[Bot] Warning: failed to release polling lock: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go b.runPolling()

	log.Println("[Bot] Bot is running (mode: polling). Press Ctrl+C to stop.")

	<-sigChan
	log.Println("[Bot] Shutting down...")
	b.API.StopReceivingUpdates()

	log.Printf("[Bot] Handled %d updates, recovered %d panics. Goodbye!",
		b.updatesHandled.Load(), b.panicsRecovered.Load())
	return nil
}

// runPolling starts long-polling for updates.
func (b *Bot) runPolling() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.API.GetUpdatesChan(u)

	log.Println("[Bot] Polling for updates...")

	for update := range updates {
		go b.handleUpdate(update)
	}
}

// handleUpdate processes a single update with panic recovery.
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.panicsRecovered.Inc()
			log.Printf("[Bot] panic in handler: %v", r)
		}
	}()
	b.updatesHandled.Inc()

	if b.pipeline.Len() > 0 {
		ctx := &MiddlewareContext{
			Update: update,
			Bot:    b.API,
			Extra:  make(map[string]interface{}),
		}
		b.pipeline.Execute(ctx, func() {
			ctx.Handled = true
			b.Router.Dispatch(b.API, update)
		})
	} else {
		b.Router.Dispatch(b.API, update)
	}
}

// --- Dialog handlers ---

func (b *Bot) handleCommand(cmd string, u tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	replies := b.engine.Command(ctx, senderID(u.Message), cmd)
	b.sendReplies(u.Message.Chat.ID, replies)
}

func (b *Bot) handleText(u tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	replies := b.engine.HandleText(ctx, senderID(u.Message), u.Message.Text)
	b.sendReplies(u.Message.Chat.ID, replies)
}

func (b *Bot) handlePhoto(u tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	data, err := b.downloadPhoto(ctx, u.Message)
	if err != nil {
		log.Printf("[Bot] Failed to download photo from %d: %v", senderID(u.Message), err)
		b.sendReplies(u.Message.Chat.ID, []dialog.Reply{
			{Text: "Не удалось скачать фотографию. Попробуй отправить её ещё раз."},
		})
		return
	}

	replies := b.engine.HandlePhoto(ctx, senderID(u.Message), data)
	b.sendReplies(u.Message.Chat.ID, replies)
}

// downloadPhoto fetches the largest rendition of the message's photo.
// Telegram orders PhotoSize ascending, so the last entry wins.
func (b *Bot) downloadPhoto(ctx context.Context, msg *tgbotapi.Message) ([]byte, error) {
	if len(msg.Photo) == 0 {
		return nil, fmt.Errorf("message has no photo")
	}
	fileID := msg.Photo[len(msg.Photo)-1].FileID

	url, err := b.API.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("read photo body: %w", err)
	}
	return data, nil
}

// sendReplies maps engine replies onto outgoing messages. Send failures
// are logged and the rest of the batch still goes out.
func (b *Bot) sendReplies(chatID int64, replies []dialog.Reply) {
	for _, r := range replies {
		msg := tgbotapi.NewMessage(chatID, r.Text)
		switch {
		case len(r.Keyboard) > 0:
			rows := make([][]tgbotapi.KeyboardButton, 0, len(r.Keyboard))
			for _, row := range r.Keyboard {
				buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
				for _, label := range row {
					buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
				}
				rows = append(rows, buttons)
			}
			kb := tgbotapi.NewReplyKeyboard(rows...)
			kb.ResizeKeyboard = true
			kb.OneTimeKeyboard = true
			msg.ReplyMarkup = kb
		case r.RemoveKeyboard:
			msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
		}
		if r.Markdown {
			msg.ParseMode = tgbotapi.ModeMarkdown
		}
		if _, err := b.API.Send(msg); err != nil {
			log.Printf("[Bot] Failed to send message to %d: %v", chatID, err)
		}
	}
}

func senderID(msg *tgbotapi.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}

// requestLogMiddleware logs each dispatched update in debug mode.
func requestLogMiddleware(ctx *MiddlewareContext, next NextFunc) {
	if ctx.Update.Message != nil {
		log.Printf("[Bot] Update %d from %d", ctx.Update.UpdateID, senderID(ctx.Update.Message))
	}
	next()
}
