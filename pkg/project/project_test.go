package project_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-wand/pkg/manifest"
	"github.com/goliatone/go-wand/pkg/project"
	"github.com/goliatone/go-wand/pkg/testsupport"
)

func fixtureManifest(id string) string {
	return `{"id":"` + id + `","name":"x","options":[]}`
}

func fixtureTemplate(id string, files map[string]string) manifest.Template {
	fsys := fstest.MapFS{
		"config.json": {Data: []byte(fixtureManifest(id))},
	}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return manifest.Template{ID: id, Name: id, RootPath: "templates/" + id, FS: fsys, ManifestPath: "config.json"}
}

func renderProject(t *testing.T, p *project.Project, tmpl manifest.Template) (project.Result, error) {
	t.Helper()
	engine, err := project.NewEngine(tmpl)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return p.Render(context.Background(), tmpl, engine)
}

func TestRender_DefaultOutputRootScenario(t *testing.T) {
	t.Chdir(t.TempDir())

	tmpl := fixtureTemplate("api", map[string]string{"README.md": "# Demo\nworkers={{ workers }}\n"})
	p := project.New("demo", project.WithTemplate("api"))
	p.Set("workers", "4")

	result, err := renderProject(t, p, tmpl)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(filepath.Join("output", "demo", "README.md"))
	if err != nil {
		t.Fatalf("read rendered file: %v", err)
	}
	if string(data) != "# Demo\nworkers=4\n" {
		t.Fatalf("unexpected content %q", data)
	}
	if result.TemplateID != "api" || result.OutputDir != filepath.Join("output", "demo") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRender_Completeness(t *testing.T) {
	files := map[string]string{
		"README.md":              "{{ name }}",
		"src/main.go":            "package main // {{ module }}",
		"src/internal/util.go":   "package internal",
		"deploy/k8s/values.yaml": "replicas: {{ replicas }}",
		".gitignore":             "/bin\n",
	}
	tmpl := fixtureTemplate("svc", files)

	root := t.TempDir()
	p := project.New("svc-one", project.WithTemplate("svc"), project.WithOutputRoot(root))
	p.Set("name", "svc-one")
	p.Set("module", "example.com/svc")
	p.Set("replicas", "3")

	result, err := renderProject(t, p, tmpl)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	got := testsupport.ReadTree(t, filepath.Join(root, "svc-one"))
	want := map[string]string{
		"README.md":              "svc-one",
		"src/main.go":            "package main // example.com/svc",
		"src/internal/util.go":   "package internal",
		"deploy/k8s/values.yaml": "replicas: 3",
		".gitignore":             "/bin\n",
		"config.json":            fixtureManifest("svc"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rendered tree mismatch (-want +got):\n%s", diff)
	}
	if len(result.Files) != len(files)+1 {
		t.Fatalf("expected one output per template file, got %v", result.Files)
	}
}

func TestRender_MissingValuesRenderEmpty(t *testing.T) {
	tmpl := fixtureTemplate("api", map[string]string{"a.txt": "[{{ port }}]"})
	root := t.TempDir()
	p := project.New("demo", project.WithTemplate("api"), project.WithOutputRoot(root))
	p.Context = nil

	if _, err := renderProject(t, p, tmpl); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := testsupport.ReadTree(t, filepath.Join(root, "demo"))
	if got["a.txt"] != "[]" {
		t.Fatalf("expected empty substitution, got %q", got["a.txt"])
	}
	if p.Context == nil {
		t.Fatalf("render should initialise a missing context")
	}
}

func TestRender_PathTemplating(t *testing.T) {
	tmpl := fixtureTemplate("lib", map[string]string{
		"pkg/{{ package }}/{{ package }}.go": "package {{ package }}\n",
	})
	root := t.TempDir()
	p := project.New("mylib", project.WithTemplate("lib"), project.WithOutputRoot(root))
	p.Set("package", "widgets")

	if _, err := renderProject(t, p, tmpl); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := testsupport.ReadTree(t, filepath.Join(root, "mylib"))
	want := map[string]string{
		"config.json":            fixtureManifest("lib"),
		"pkg/widgets/widgets.go": "package widgets\n",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rendered tree mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_PathEscapeRejected(t *testing.T) {
	tmpl := fixtureTemplate("lib", map[string]string{"{{ target }}.txt": "x"})
	root := t.TempDir()
	p := project.New("mylib", project.WithTemplate("lib"), project.WithOutputRoot(root))
	p.Set("target", "../../escaped")

	_, err := renderProject(t, p, tmpl)
	var rerr *project.RenderError
	if !errors.As(err, &rerr) || rerr.Stage != project.StagePath {
		t.Fatalf("expected path RenderError, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, "escaped.txt")); !os.IsNotExist(statErr) {
		t.Fatalf("escaped file must not be written")
	}
}

func TestRender_PartialFailureLeavesWrittenFiles(t *testing.T) {
	tmpl := fixtureTemplate("api", map[string]string{
		"a.txt": "first {{ v }}",
		"b.txt": "{{ v|no_such_filter }}",
		"c.txt": "never",
	})
	root := t.TempDir()
	p := project.New("demo", project.WithTemplate("api"), project.WithOutputRoot(root))
	p.Set("v", "1")

	result, err := renderProject(t, p, tmpl)
	var rerr *project.RenderError
	if !errors.As(err, &rerr) || rerr.Stage != project.StageRender {
		t.Fatalf("expected render-stage RenderError, got %v", err)
	}
	if len(result.Files) != 1 {
		t.Fatalf("expected one file rendered before failure, got %v", result.Files)
	}

	got := testsupport.ReadTree(t, filepath.Join(root, "demo"))
	if got["a.txt"] != "first 1" {
		t.Fatalf("a.txt should be kept, got %q", got["a.txt"])
	}
	if content, ok := got["b.txt"]; !ok || content != "" {
		t.Fatalf("b.txt should exist and be empty, got %q (present=%v)", content, ok)
	}
	if _, ok := got["c.txt"]; ok {
		t.Fatalf("c.txt must not be rendered after the failure")
	}
}

func TestRender_OutputDirFailure(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	tmpl := fixtureTemplate("api", map[string]string{"a.txt": "x"})
	p := project.New("demo", project.WithTemplate("api"), project.WithOutputRoot(blocker))

	_, err := renderProject(t, p, tmpl)
	var rerr *project.RenderError
	if !errors.As(err, &rerr) || rerr.Stage != project.StageOutputDir {
		t.Fatalf("expected output-dir RenderError, got %v", err)
	}
}

func TestRender_Preconditions(t *testing.T) {
	tmpl := fixtureTemplate("api", map[string]string{"a.txt": "x"})
	ctx := context.Background()
	engine, err := project.NewEngine(tmpl)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	p := project.New("demo", project.WithOutputRoot(t.TempDir()))
	if _, err := p.Render(ctx, tmpl, engine); !errors.Is(err, project.ErrTemplateNotSet) {
		t.Fatalf("expected ErrTemplateNotSet, got %v", err)
	}

	p.TemplateID = "other"
	if _, err := p.Render(ctx, tmpl, engine); !errors.Is(err, project.ErrTemplateMismatch) {
		t.Fatalf("expected ErrTemplateMismatch, got %v", err)
	}

	p.TemplateID = "api"
	p.Name = "../up"
	if _, err := p.Render(ctx, tmpl, engine); !errors.Is(err, project.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestRender_Twice(t *testing.T) {
	tmpl := fixtureTemplate("api", map[string]string{"a.txt": "{{ v }}"})
	root := t.TempDir()
	p := project.New("demo", project.WithTemplate("api"), project.WithOutputRoot(root))

	p.Set("v", "one")
	if _, err := renderProject(t, p, tmpl); err != nil {
		t.Fatalf("first render: %v", err)
	}
	p.Set("v", "two")
	if _, err := renderProject(t, p, tmpl); err != nil {
		t.Fatalf("second render: %v", err)
	}
	if got := testsupport.ReadTree(t, filepath.Join(root, "demo"))["a.txt"]; got != "two" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestOutputDir_TrimsTrailingSeparators(t *testing.T) {
	cases := map[string]string{
		"out":     filepath.Join("out", "demo"),
		"out/":    filepath.Join("out", "demo"),
		"out///":  filepath.Join("out", "demo"),
		"./out/":  filepath.Join("out", "demo"),
		"/":       filepath.Join("/", "demo"),
		"":        filepath.Join("output", "demo"),
		"a/b/c//": filepath.Join("a", "b", "c", "demo"),
	}
	for root, want := range cases {
		p := project.New("demo")
		p.OutputRoot = root
		if got := p.OutputDir(); got != want {
			t.Fatalf("OutputDir(%q) = %q, want %q", root, got, want)
		}
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b")
	sibling := filepath.Join(root, "a", "keep.txt")

	if err := project.EnsureDir(dir); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if err := os.WriteFile(sibling, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}
	if err := project.EnsureDir(dir); err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	data, err := os.ReadFile(sibling)
	if err != nil || string(data) != "keep" {
		t.Fatalf("sibling changed: %q %v", data, err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("dir missing after second ensure: %v", err)
	}
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"demo", "my-app", "svc_2", "App.v2"} {
		if err := project.ValidateName(name); err != nil {
			t.Fatalf("%q should be valid: %v", name, err)
		}
	}
	for _, name := range []string{"", "  ", ".", "..", "a/b", `a\b`, " demo"} {
		if err := project.ValidateName(name); !errors.Is(err, project.ErrInvalidName) {
			t.Fatalf("%q should be invalid, got %v", name, err)
		}
	}
}

func TestRender_ManifestIsRendered(t *testing.T) {
	root := t.TempDir()
	templates := t.TempDir()
	testsupport.WriteTemplate(t, templates, "api", map[string]any{
		"id": "api", "name": "API", "options": []any{},
	}, map[string]string{"README.md": "# {{ project_name }}\n"})

	tmpl, err := manifest.Load(os.DirFS(templates), "api")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := project.New("demo", project.WithTemplate("api"), project.WithOutputRoot(root))

	result, err := renderProject(t, p, tmpl)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected README.md and config.json, got %v", result.Files)
	}

	source, err := os.ReadFile(filepath.Join(templates, "api", "config.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	got := testsupport.ReadTree(t, filepath.Join(root, "demo"))
	want := map[string]string{
		"README.md":   "# demo\n",
		"config.json": string(source),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rendered tree mismatch (-want +got):\n%s", diff)
	}
}

func TestNewEngine_SkipManifest(t *testing.T) {
	tmpl := fixtureTemplate("api", map[string]string{"a.txt": "x", "sub/config.json": "{}"})

	engine, err := project.NewEngine(tmpl)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	files, err := engine.Files()
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if diff := cmp.Diff([]string{"a.txt", "config.json", "sub/config.json"}, files); diff != "" {
		t.Fatalf("default files mismatch (-want +got):\n%s", diff)
	}

	engine, err = project.NewEngine(tmpl, project.SkipManifest(true))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	files, err = engine.Files()
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if diff := cmp.Diff([]string{"a.txt", "sub/config.json"}, files); diff != "" {
		t.Fatalf("skip-manifest files mismatch (-want +got):\n%s", diff)
	}
}

func TestNewEngine_Globals(t *testing.T) {
	tmpl := fixtureTemplate("api", map[string]string{
		"info.txt":   "{{ template_id }}/{{ template_name }}/{{ project_name }}",
		"shadow.txt": "{{ project_name }}",
	})
	tmpl.Name = "API service"

	root := t.TempDir()
	p := project.New("demo", project.WithTemplate("api"), project.WithOutputRoot(root))
	if _, err := renderProject(t, p, tmpl); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := testsupport.ReadTree(t, filepath.Join(root, "demo"))
	if got["info.txt"] != "api/API service/demo" {
		t.Fatalf("unexpected globals %q", got["info.txt"])
	}

	other := project.New("demo2", project.WithTemplate("api"), project.WithOutputRoot(root))
	other.Set(project.GlobalProjectName, "custom")
	if _, err := renderProject(t, other, tmpl); err != nil {
		t.Fatalf("render: %v", err)
	}
	got = testsupport.ReadTree(t, filepath.Join(root, "demo2"))
	if got["shadow.txt"] != "custom" {
		t.Fatalf("option value should shadow project_name, got %q", got["shadow.txt"])
	}
}

func TestNewEngine_FromRootPath(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{"config.yaml": "id: x", "a.txt": "{{ v }}"})

	engine, err := project.NewEngine(manifest.Template{ID: "x", RootPath: root, ManifestPath: "config.yaml"})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	files, err := engine.Files()
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if diff := cmp.Diff([]string{"a.txt", "config.yaml"}, files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}

	if _, err := project.NewEngine(manifest.Template{ID: "none"}); err == nil {
		t.Fatalf("expected error for template without tree")
	}
}

func TestContext(t *testing.T) {
	c := project.NewContext()
	c.Set("b", "2")
	c.Set("a", "1")
	c.Set("a", "one")

	if v, ok := c.Get("a"); !ok || v != "one" {
		t.Fatalf("unexpected value %q %v", v, ok)
	}
	if diff := cmp.Diff([]string{"a", "b"}, c.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	values := c.Values()
	values["a"] = "mutated"
	if v, _ := c.Get("a"); v != "one" {
		t.Fatalf("Values must return a copy")
	}
	if c.Data()["b"] != "2" {
		t.Fatalf("Data should expose values")
	}

	var nilCtx *project.Context
	if nilCtx.Len() != 0 || len(nilCtx.Values()) != 0 {
		t.Fatalf("nil context should behave as empty")
	}
}
