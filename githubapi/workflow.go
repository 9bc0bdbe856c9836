package githubapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"gopkg.in/yaml.v3"
)

// WorkflowPath is where the Pages deploy workflow lives in every portfolio
// repo. The template ships it, but repos created before the workflow was
// added (or users who deleted it) get it re-created here.
const WorkflowPath = ".github/workflows/hugo.yml"

const workflowName = "Deploy Hugo site to Pages"

// workflowDef renders the GitHub Actions workflow. Struct order fixes the
// key order in the emitted YAML.
type workflowDef struct {
	Name        string            `yaml:"name"`
	On          workflowOn        `yaml:"on"`
	Permissions map[string]string `yaml:"permissions"`
	Jobs        map[string]any    `yaml:"jobs"`
}

type workflowOn struct {
	Push     workflowPush `yaml:"push"`
	Dispatch *struct{}    `yaml:"workflow_dispatch"`
}

type workflowPush struct {
	Branches []string `yaml:"branches"`
}

func renderWorkflow() ([]byte, error) {
	def := workflowDef{
		Name: workflowName,
		On:   workflowOn{Push: workflowPush{Branches: []string{"main"}}},
		Permissions: map[string]string{
			"contents": "read",
			"pages":    "write",
			"id-token": "write",
		},
		Jobs: map[string]any{
			"build-deploy": map[string]any{
				"runs-on": "ubuntu-latest",
				"environment": map[string]string{
					"name": "github-pages",
					"url":  "${{ steps.deployment.outputs.page_url }}",
				},
				"steps": []map[string]any{
					{"uses": "actions/checkout@v4"},
					{
						"uses": "peaceiris/actions-hugo@v3",
						"with": map[string]any{"hugo-version": "latest", "extended": true},
					},
					{"run": "hugo --minify"},
					{"uses": "actions/configure-pages@v5"},
					{
						"uses": "actions/upload-pages-artifact@v3",
						"with": map[string]string{"path": "./public"},
					},
					{"id": "deployment", "uses": "actions/deploy-pages@v4"},
				},
			},
		},
	}
	return yaml.Marshal(def)
}

// EnsureWorkflowAndTrigger makes sure the deploy workflow exists and kicks
// it off. Best effort: every failure becomes a warning, never an error —
// the portfolio content is already committed at this point and a deploy
// hiccup must not fail the whole publish.
func (c *Client) EnsureWorkflowAndTrigger(ctx context.Context, token, owner, repo string) (created bool, warnings []string) {
	_, err := c.GetFile(ctx, token, owner, repo, WorkflowPath)
	switch {
	case err == nil:
		// Workflow already present.
	case errors.Is(err, ErrNotFound):
		raw, rerr := renderWorkflow()
		if rerr != nil {
			log.Printf("[GitHub] Failed to render workflow: %v", rerr)
			return false, []string{"Не удалось подготовить workflow для деплоя."}
		}
		if uerr := c.UpsertFile(ctx, token, owner, repo, WorkflowPath, raw,
			"ci: add Hugo Pages deploy workflow"); uerr != nil {
			log.Printf("[GitHub] Failed to create workflow in %s/%s: %v", owner, repo, uerr)
			return false, []string{
				"Не удалось создать workflow для деплоя (нужно право workflow у токена).",
			}
		}
		created = true
		log.Printf("[GitHub] Created deploy workflow in %s/%s", owner, repo)
	default:
		log.Printf("[GitHub] Failed to inspect workflow in %s/%s: %v", owner, repo, err)
		warnings = append(warnings, "Не удалось проверить workflow деплоя.")
		return false, warnings
	}

	if derr := c.dispatchWorkflow(ctx, token, owner, repo); derr != nil {
		log.Printf("[GitHub] Workflow dispatch failed for %s/%s: %v", owner, repo, derr)
		warnings = append(warnings,
			"Не удалось запустить сборку автоматически — открой вкладку Actions и запусти workflow вручную.")
	}
	return created, warnings
}

func (c *Client) dispatchWorkflow(ctx context.Context, token, owner, repo string) error {
	path := fmt.Sprintf("/repos/%s/%s/actions/workflows/hugo.yml/dispatches", owner, repo)
	status, err := c.doJSON(ctx, token, http.MethodPost, path, map[string]string{"ref": "main"}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return fmt.Errorf("unexpected status %d", status)
	}
	return nil
}
