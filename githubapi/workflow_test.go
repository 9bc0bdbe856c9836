package githubapi

import (
	"context"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRenderWorkflow_ValidYAML(t *testing.T) {
	raw, err := renderWorkflow()
	if err != nil {
		t.Fatal(err)
	}
	var def struct {
		Name string `yaml:"name"`
		On   struct {
			Push struct {
				Branches []string `yaml:"branches"`
			} `yaml:"push"`
		} `yaml:"on"`
		Jobs map[string]any `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(raw, &def); err != nil {
		t.Fatalf("rendered workflow is not valid YAML: %v\n%s", err, raw)
	}
	if def.Name != workflowName {
		t.Fatalf("got name %q", def.Name)
	}
	if len(def.On.Push.Branches) != 1 || def.On.Push.Branches[0] != "main" {
		t.Fatalf("got branches %v", def.On.Push.Branches)
	}
	if _, ok := def.Jobs["build-deploy"]; !ok {
		t.Fatal("missing build-deploy job")
	}
	if !strings.Contains(string(raw), "workflow_dispatch") {
		t.Fatal("workflow must be manually dispatchable")
	}
}

func TestEnsureWorkflowAndTrigger_CreatesWhenMissing(t *testing.T) {
	c, f := newTestClient(t)
	f.repos["a/r"] = true

	created, warnings := c.EnsureWorkflowAndTrigger(context.Background(), "tok", "a", "r")
	if !created {
		t.Fatal("expected workflow creation")
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if _, ok := f.files["a/r"][WorkflowPath]; !ok {
		t.Fatal("workflow file not written")
	}
	if f.dispatchCalls != 1 {
		t.Fatalf("expected one dispatch, got %d", f.dispatchCalls)
	}
}

func TestEnsureWorkflowAndTrigger_ExistingSkipsCreate(t *testing.T) {
	c, f := newTestClient(t)
	f.repos["a/r"] = true
	f.put("a/r", WorkflowPath, []byte("name: x\n"))

	created, warnings := c.EnsureWorkflowAndTrigger(context.Background(), "tok", "a", "r")
	if created {
		t.Fatal("must not re-create existing workflow")
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestEnsureWorkflowAndTrigger_DispatchFailureIsWarning(t *testing.T) {
	c, f := newTestClient(t)
	f.repos["a/r"] = true
	f.put("a/r", WorkflowPath, []byte("name: x\n"))
	f.dispatchFail = true

	_, warnings := c.EnsureWorkflowAndTrigger(context.Background(), "tok", "a", "r")
	if len(warnings) != 1 {
		t.Fatalf("dispatch failure must become a single warning, got %v", warnings)
	}
}

func TestPagesURL(t *testing.T) {
	if got := PagesURL("alice", "portfolio"); got != "https://alice.github.io/portfolio/" {
		t.Fatalf("got %q", got)
	}
	if got := PagesURL("alice", "alice.github.io"); got != "https://alice.github.io/" {
		t.Fatalf("root form expected, got %q", got)
	}
	if got := PagesURL("Alice", "ALICE.github.io"); got != "https://Alice.github.io/" {
		t.Fatalf("case-insensitive match expected, got %q", got)
	}
}
