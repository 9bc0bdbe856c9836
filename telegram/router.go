package telegram

import (
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandlerFunc is the function signature for all update handlers.
// It receives the low-level BotAPI and the incoming Update.
type HandlerFunc func(bot *tgbotapi.BotAPI, update tgbotapi.Update)

// messageRoute pairs a filter string with a handler.
type messageRoute struct {
	filter  string // "private", "group", "all"
	handler HandlerFunc
}

// Router dispatches incoming Updates to registered handlers.
//
// Dispatch priority:
//  1. Command handlers (exact match on command name)
//  2. Photo handlers (filter match on chat type)
//  3. Message handlers (filter match on chat type)
type Router struct {
	commands map[string]HandlerFunc
	photos   []messageRoute
	messages []messageRoute
	debug    bool
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{
		commands: make(map[string]HandlerFunc),
		photos:   make([]messageRoute, 0),
		messages: make([]messageRoute, 0),
	}
}

// AddCommand registers a handler for a bot command (e.g. "start" for /start).
func (r *Router) AddCommand(name string, handler HandlerFunc) {
	r.commands[name] = handler
	if r.debug {
		log.Printf("[Router] Registered command: /%s", name)
	}
}

// AddPhoto registers a handler for photo messages matching the filter.
func (r *Router) AddPhoto(filter string, handler HandlerFunc) {
	r.photos = append(r.photos, messageRoute{filter: strings.ToLower(filter), handler: handler})
	if r.debug {
		log.Printf("[Router] Registered photo filter: %s", filter)
	}
}

// AddMessage registers a handler for text messages matching the filter.
//
// Supported filters:
//   - "private"  — only private (DM) messages
//   - "group"    — only group and supergroup messages
//   - "all"      — all text messages
func (r *Router) AddMessage(filter string, handler HandlerFunc) {
	r.messages = append(r.messages, messageRoute{filter: strings.ToLower(filter), handler: handler})
	if r.debug {
		log.Printf("[Router] Registered message filter: %s", filter)
	}
}

// Dispatch routes an Update to the appropriate handler.
// Returns true if a handler was found and invoked, false otherwise.
func (r *Router) Dispatch(bot *tgbotapi.BotAPI, update tgbotapi.Update) bool {
	if update.Message == nil {
		return false
	}
	msg := update.Message

	// 1. Command messages
	if msg.IsCommand() {
		if handler, ok := r.commands[msg.Command()]; ok {
			handler(bot, update)
			return true
		}
		// Unknown command — fall through to message handlers
	}

	chatType := ""
	if msg.Chat != nil {
		chatType = strings.ToLower(msg.Chat.Type)
	}

	// 2. Photo messages
	if len(msg.Photo) > 0 {
		for _, route := range r.photos {
			if matchMessageFilter(route.filter, chatType) {
				route.handler(bot, update)
				return true
			}
		}
	}

	// 3. Plain text messages (non-command)
	if !msg.IsCommand() && msg.Text != "" {
		for _, route := range r.messages {
			if matchMessageFilter(route.filter, chatType) {
				route.handler(bot, update)
				return true
			}
		}
	}

	return false
}

// matchMessageFilter checks if a chat type matches the filter.
func matchMessageFilter(filter, chatType string) bool {
	switch filter {
	case "all":
		return true
	case "private":
		return chatType == "private"
	case "group":
		return chatType == "group" || chatType == "supergroup"
	default:
		return false
	}
}
