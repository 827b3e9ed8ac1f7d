package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// FileName is the project file read from the project directory.
const FileName = "complexity.yml"

// Project describes a site. Directories are relative to the project
// directory unless absolute.
type Project struct {
	TemplatesDir        string   `yaml:"templates_dir"`
	AssetsDir           string   `yaml:"assets_dir"`
	ContextDir          string   `yaml:"context_dir"`
	OutputDir           string   `yaml:"output_dir"`
	MacroDirs           []string `yaml:"macro_dirs"`
	UnexpandedTemplates []string `yaml:"unexpanded_templates"`
	Expand              bool     `yaml:"expand"`
	Minify              bool     `yaml:"minify"`
}

// Default returns the layout used when complexity.yml is absent or leaves a
// field out.
func Default() Project {
	return Project{
		TemplatesDir: "templates",
		AssetsDir:    "assets",
		ContextDir:   "context",
		OutputDir:    "../www",
		Expand:       true,
	}
}

// ReadProject reads complexity.yml from dir on top of the defaults. A
// project without the file gets the defaults.
func ReadProject(dir string) (Project, error) {
	p := Default()
	err := LoadYAML(filepath.Join(dir, FileName), &p)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

// UnexpandedList returns the templates that must keep their mirrored path.
// It is never nil.
func (p Project) UnexpandedList() []string {
	if p.UnexpandedTemplates == nil {
		return []string{}
	}
	return p.UnexpandedTemplates
}

func (p *Project) Validate() error {
	for field, dir := range map[string]string{
		"templates_dir": p.TemplatesDir,
		"assets_dir":    p.AssetsDir,
		"context_dir":   p.ContextDir,
		"output_dir":    p.OutputDir,
	} {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
	}

	for _, name := range p.UnexpandedTemplates {
		clean := path.Clean(filepath.ToSlash(name))
		if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("unexpanded template %q must be relative to the templates directory", name)
		}
	}
	return nil
}

// Paths holds a project's directories resolved against the project
// directory.
type Paths struct {
	Project   string
	Templates string
	Assets    string
	Context   string
	Output    string
	Macros    []string
}

// Resolve makes every directory of p absolute, relative to projectDir.
func (p Project) Resolve(projectDir string) (Paths, error) {
	root, err := filepath.Abs(projectDir)
	if err != nil {
		return Paths{}, fmt.Errorf("failed to resolve project directory %q: %w", projectDir, err)
	}

	join := func(dir string) string {
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(root, dir)
	}

	paths := Paths{
		Project:   root,
		Templates: join(p.TemplatesDir),
		Assets:    join(p.AssetsDir),
		Context:   join(p.ContextDir),
		Output:    join(p.OutputDir),
	}
	for _, dir := range p.MacroDirs {
		paths.Macros = append(paths.Macros, join(dir))
	}
	return paths, nil
}
