package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	loamAdapter "github.com/aretw0/dagview/pkg/adapters/loam"
	"github.com/aretw0/dagview/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Script is a replayable diagram session.
type Script struct {
	Name   string `yaml:"name" json:"name"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`

	// ManualCompletion disables the automatic render completion after each
	// step; the script then sends `complete: true` steps itself.
	ManualCompletion bool `yaml:"manual_completion" json:"manual_completion"`

	// Fixtures is the directory `fixture` steps load snapshots from,
	// relative to the script file. Defaults to "fixtures".
	Fixtures string `yaml:"fixtures,omitempty" json:"fixtures,omitempty"`

	Steps []Step `yaml:"steps" json:"steps"`
}

// Step is one scripted input. Exactly one field is set.
type Step struct {
	Snapshot    *domain.Snapshot       `yaml:"snapshot,omitempty" json:"snapshot,omitempty"`
	Fixture     string                 `yaml:"fixture,omitempty" json:"fixture,omitempty"`
	Interaction domain.InteractionKind `yaml:"interaction,omitempty" json:"interaction,omitempty"`
	Click       *domain.ClickEvent     `yaml:"click,omitempty" json:"click,omitempty"`
	Resize      *Size                  `yaml:"resize,omitempty" json:"resize,omitempty"`
	Control     domain.CommandKind     `yaml:"control,omitempty" json:"control,omitempty"`
	Focus       string                 `yaml:"focus,omitempty" json:"focus,omitempty"`
	Complete    bool                   `yaml:"complete,omitempty" json:"complete,omitempty"`
	Destroy     bool                   `yaml:"destroy,omitempty" json:"destroy,omitempty"`

	loaded *domain.Snapshot
}

// FixtureSource resolves fixture names to snapshots.
type FixtureSource interface {
	Snapshot(ctx context.Context, id string) (domain.Snapshot, error)
}

// Size is a container size.
type Size struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Command converts the step into a coordinator command. Destroy steps have
// no command; the runner tears the engine down instead.
func (s Step) Command() (domain.Command, error) {
	set := 0
	var cmd domain.Command
	if s.Snapshot != nil {
		set++
		cmd = domain.SnapshotCommand(*s.Snapshot)
	}
	if s.Fixture != "" {
		set++
		if s.loaded == nil {
			return domain.Command{}, fmt.Errorf("%w: fixture %q is not loaded", domain.ErrInvalidPayload, s.Fixture)
		}
		cmd = domain.SnapshotCommand(*s.loaded)
	}
	if s.Interaction != "" {
		set++
		cmd = domain.InteractionCommand(s.Interaction)
	}
	if s.Click != nil {
		set++
		cmd = domain.ClickCommand(*s.Click)
	}
	if s.Resize != nil {
		set++
		cmd = domain.ResizeCommand(s.Resize.Width, s.Resize.Height)
	}
	if s.Control != "" {
		set++
		if !s.Control.IsControl() {
			return domain.Command{}, fmt.Errorf("%w: control %q", domain.ErrUnknownCommand, s.Control)
		}
		cmd = domain.ControlCommand(s.Control)
	}
	if s.Focus != "" {
		set++
		cmd = domain.FocusCommand(s.Focus)
	}
	if s.Complete {
		set++
		cmd = domain.ControlCommand(domain.CmdRenderComplete)
	}
	if s.Destroy {
		set++
	}
	if set != 1 {
		return domain.Command{}, fmt.Errorf("%w: step must set exactly one field, got %d", domain.ErrInvalidPayload, set)
	}
	return cmd, nil
}

// Describe is a short human label of the step.
func (s Step) Describe() string {
	switch {
	case s.Snapshot != nil:
		return fmt.Sprintf("snapshot (%d nodes, %d combos)", len(s.Snapshot.Nodes), len(s.Snapshot.Combos))
	case s.Fixture != "" && s.loaded != nil:
		return fmt.Sprintf("fixture %s (%d nodes, %d combos)", s.Fixture, len(s.loaded.Nodes), len(s.loaded.Combos))
	case s.Fixture != "":
		return "fixture " + s.Fixture
	case s.Interaction != "":
		return "interaction " + string(s.Interaction)
	case s.Click != nil:
		mods := strings.Join(s.Click.Modifiers, "+")
		if mods == "" {
			return "click"
		}
		return mods + "+click"
	case s.Resize != nil:
		return fmt.Sprintf("resize %dx%d", s.Resize.Width, s.Resize.Height)
	case s.Control != "":
		return "control " + string(s.Control)
	case s.Focus != "":
		return "focus " + s.Focus
	case s.Complete:
		return "render complete"
	case s.Destroy:
		return "destroy"
	}
	return "empty"
}

// LoadScript reads a script file (YAML, or JSON by extension). Fixture
// steps are loaded from the script's fixture directory.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	script, err := ParseScript(data, strings.ToLower(filepath.Ext(path)) == ".json")
	if err != nil {
		return nil, err
	}
	if !script.usesFixtures() {
		return script, nil
	}

	dir := script.Fixtures
	if dir == "" {
		dir = "fixtures"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(filepath.Dir(path), dir)
	}
	fixtures, err := loamAdapter.Open(dir)
	if err != nil {
		return nil, err
	}
	if err := script.Resolve(context.Background(), fixtures); err != nil {
		return nil, err
	}
	return script, nil
}

func (s *Script) usesFixtures() bool {
	for _, step := range s.Steps {
		if step.Fixture != "" {
			return true
		}
	}
	return false
}

// Resolve loads the snapshot of every fixture step.
func (s *Script) Resolve(ctx context.Context, src FixtureSource) error {
	for i := range s.Steps {
		step := &s.Steps[i]
		if step.Fixture == "" || step.loaded != nil {
			continue
		}
		snap, err := src.Snapshot(ctx, step.Fixture)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		step.loaded = &snap
	}
	return nil
}

// ParseScript decodes a script. Sizes default to 800x600.
func ParseScript(data []byte, isJSON bool) (*Script, error) {
	var script Script
	if isJSON {
		if err := json.Unmarshal(data, &script); err != nil {
			return nil, fmt.Errorf("failed to parse script: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	if script.Width == 0 && script.Height == 0 {
		script.Width, script.Height = 800, 600
	}
	for i, step := range script.Steps {
		if step.Fixture != "" && step.loaded == nil {
			step.loaded = &domain.Snapshot{} // the copy stands in until Resolve
		}
		if _, err := step.Command(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &script, nil
}

// LoadSnapshot reads a snapshot file (YAML, or JSON by extension) in either
// push shape.
func LoadSnapshot(path string) (domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var payload map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &payload)
	} else {
		err = yaml.Unmarshal(data, &payload)
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	return domain.DecodeSnapshot(payload)
}
