package githubapi

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ruslanshgd/izi-portfolio-bot/hugocfg"
	"github.com/ruslanshgd/izi-portfolio-bot/portfolio"
)

// Fixed paths inside every portfolio repository.
const (
	ConfigPath = "hugo.toml"
	PhotoPath  = "static/images/author.jpg"
)

const (
	configCommitMessage = "chore: update portfolio configuration from Telegram bot"
	photoCommitMessage  = "chore: update author photo from Telegram bot"
)

// Publisher applies collected profiles and single-field edits to a user's
// portfolio repository. It is the dialog engine's remote collaborator.
type Publisher struct {
	client        *Client
	templateOwner string
	templateRepo  string
}

// NewPublisher wires a Publisher to its API client and template repo.
func NewPublisher(client *Client, templateOwner, templateRepo string) *Publisher {
	return &Publisher{
		client:        client,
		templateOwner: templateOwner,
		templateRepo:  templateRepo,
	}
}

// ApplyProfile publishes a complete profile:
//
//  1. ensure the repository exists (create from template if needed),
//  2. render hugo.toml from the profile and upsert it,
//  3. upsert the author photo,
//  4. ensure the deploy workflow exists and trigger it (best effort).
//
// Returns the expected GitHub Pages URL plus non-fatal warnings.
func (p *Publisher) ApplyProfile(ctx context.Context, token string, profile portfolio.Profile, image []byte) (string, []string, error) {
	repo, err := p.client.EnsureRepoFromTemplate(ctx, token,
		profile.GitHubUsername, profile.RepoName, p.templateOwner, p.templateRepo)
	if err != nil {
		return "", nil, err
	}
	log.Printf("[Publish] Repository ready: %s", repo.FullName)

	doc := hugocfg.Generate(profile)
	if err := p.client.UpsertFile(ctx, token, profile.GitHubUsername, profile.RepoName,
		ConfigPath, []byte(doc), configCommitMessage); err != nil {
		return "", nil, err
	}

	if err := p.client.UpsertFile(ctx, token, profile.GitHubUsername, profile.RepoName,
		PhotoPath, image, photoCommitMessage); err != nil {
		return "", nil, err
	}

	_, warnings := p.client.EnsureWorkflowAndTrigger(ctx, token, profile.GitHubUsername, profile.RepoName)

	return PagesURL(profile.GitHubUsername, repo.Name), warnings, nil
}

// UpdateField edits one scalar field of the published hugo.toml in place:
// fetch, text-transform, push back. Repeatable sub-records are not
// reachable through this path — only full regeneration can change them.
func (p *Publisher) UpdateField(ctx context.Context, token, owner, repo, field, value string) error {
	raw, err := p.client.GetFile(ctx, token, owner, repo, ConfigPath)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", ConfigPath, err)
	}
	updated, err := hugocfg.SetField(string(raw), hugocfg.ParamsSection, field, value)
	if err != nil {
		return err
	}
	return p.client.UpsertFile(ctx, token, owner, repo, ConfigPath,
		[]byte(updated), configCommitMessage)
}

// UploadPhoto replaces the author photo of an existing portfolio.
func (p *Publisher) UploadPhoto(ctx context.Context, token, owner, repo string, image []byte) error {
	return p.client.UpsertFile(ctx, token, owner, repo, PhotoPath, image, photoCommitMessage)
}

// EnsureWorkflowAndTrigger re-exports the client call for the update flow.
func (p *Publisher) EnsureWorkflowAndTrigger(ctx context.Context, token, owner, repo string) (bool, []string) {
	return p.client.EnsureWorkflowAndTrigger(ctx, token, owner, repo)
}

// PagesURL computes the expected GitHub Pages address. Repositories named
// "{owner}.github.io" are served from the account root.
func PagesURL(owner, repo string) string {
	if strings.EqualFold(repo, owner+".github.io") {
		return fmt.Sprintf("https://%s.github.io/", owner)
	}
	return fmt.Sprintf("https://%s.github.io/%s/", owner, repo)
}
