package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// ProjectPlanFile is the plan file looked up when no pattern is given
	ProjectPlanFile = "actionplan.yaml"
)

// Loader resolves and merges plan files
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new plan loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load resolves patterns to plan files and merges them in lexical path order,
// later files overriding earlier ones per action name. With no patterns the
// project plan (actionplan.yaml in the current or a parent directory) is used.
func (l *Loader) Load(patterns ...string) (*Plan, error) {
	files, err := l.ResolveFiles(patterns...)
	if err != nil {
		return nil, err
	}

	plan := DefaultPlan()
	for _, path := range files {
		p, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		l.logger.Debug("Loaded plan file",
			slog.String("path", path),
			slog.Int("actions", len(p.Types)))
		plan.Merge(p)
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}

// ResolveFiles expands patterns to plan files.
// Supports both single-level wildcards (*) and recursive wildcards (**).
//
// Examples:
//   - "plans/counter.yaml" → ["/abs/plans/counter.yaml"]
//   - "plans/*.yaml" → every YAML file directly under plans
//   - "plans/**/*.yaml" → every YAML file below plans
func (l *Loader) ResolveFiles(patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		path := l.findProjectPlan()
		if path == "" {
			return nil, fmt.Errorf("%w: %s not found", ErrNoPlans, ProjectPlanFile)
		}
		l.logger.Debug("Using project plan", slog.String("path", path))
		return []string{path}, nil
	}

	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		paths, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}

		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}

	if len(resolved) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPlans, strings.Join(patterns, ", "))
	}

	sort.Strings(resolved)
	return resolved, nil
}

// resolvePattern expands a single glob pattern to regular files.
func resolvePattern(pattern string) ([]string, error) {
	absPattern, err := filepath.Abs(pattern)
	if err != nil {
		return nil, err
	}

	if !containsGlob(pattern) {
		info, err := os.Stat(absPattern)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("path is a directory: %s", absPattern)
		}
		return []string{absPattern}, nil
	}

	// Use doublestar for ** support
	matches, err := doublestar.FilepathGlob(absPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}
	return matches, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// findProjectPlan searches for actionplan.yaml in current and parent directories
func (l *Loader) findProjectPlan() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		planPath := filepath.Join(dir, ProjectPlanFile)
		if _, err := os.Stat(planPath); err == nil {
			return planPath
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}
