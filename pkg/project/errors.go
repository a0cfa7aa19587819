package project

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateNotSet is returned when Render runs before a template was
	// chosen.
	ErrTemplateNotSet = errors.New("project: template not set")
	// ErrTemplateMismatch is returned when the template handed to Render is
	// not the one the project was created for.
	ErrTemplateMismatch = errors.New("project: template does not match project")
	// ErrInvalidName is returned for project names that cannot be used as a
	// single output directory.
	ErrInvalidName = errors.New("project: invalid project name")
)

// Render stages reported by RenderError.
const (
	StageOutputDir = "output directory"
	StageList      = "list templates"
	StagePath      = "resolve path"
	StageDirectory = "create directory"
	StageCreate    = "create file"
	StageRender    = "render file"
)

// RenderError reports where a render pass stopped. Files written before the
// failure are left in place.
type RenderError struct {
	Stage string
	Path  string
	Err   error
}

func (e *RenderError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("project: %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("project: %s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
