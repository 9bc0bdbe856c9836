// Command portfolio-bot runs the Telegram bot that builds and updates
// Hugo portfolio sites on GitHub Pages.
package main

import (
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ruslanshgd/izi-portfolio-bot/dialog"
	"github.com/ruslanshgd/izi-portfolio-bot/githubapi"
	"github.com/ruslanshgd/izi-portfolio-bot/store"
	"github.com/ruslanshgd/izi-portfolio-bot/telegram"
)

const evictorInterval = 10 * time.Minute

func main() {
	cfg, err := telegram.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("[Main] Configuration error: %v", err)
	}
	telegram.SetupLogging(cfg.Debug, cfg.LogFile)

	var repoStore store.RepoStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		repoStore = store.NewRedisStore(client, "repo")
		log.Printf("[Main] Repo records in Redis at %s", cfg.RedisAddr)
	} else {
		repoStore = store.NewFileStore(cfg.RepoInfoFile)
		log.Printf("[Main] Repo records in %s", cfg.RepoInfoFile)
	}

	publisher := githubapi.NewPublisher(githubapi.NewClient(), cfg.TemplateOwner, cfg.TemplateRepo)

	sessions := dialog.NewSessions(repoStore, cfg.SessionIdleTTL)
	sessions.StartEvictor(evictorInterval)
	defer sessions.StopEvictor()

	engine := dialog.NewEngine(sessions, publisher, repoStore, dialog.Options{
		ClearTokenAfterPublish: cfg.ClearTokenAfterPublish,
	})

	bot, err := telegram.NewBot(cfg, engine)
	if err != nil {
		log.Fatalf("[Main] Failed to create bot: %v", err)
	}
	if err := bot.Run(); err != nil {
		log.Fatalf("[Main] %v", err)
	}
}
