package usecase

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/3-lines-studio/easygen/internal/templates"
)

var ErrConfigExists = errors.New("settings file already exists")

type InitInput struct {
	ProjectDir string
	Template   string
	Force      bool
}

type InitOutput struct {
	Files []string
	Error error
}

// InitService scaffolds a settings file for one of the built-in storage
// backends.
type InitService struct {
	fs  FileSystem
	cli CLIOutput
}

func NewInitService(fs FileSystem, cli CLIOutput) *InitService {
	return &InitService{
		fs:  fs,
		cli: cli,
	}
}

func (s *InitService) InitProject(input InitInput) InitOutput {
	s.cli.PrintHeader("easygen init")

	templateFS, err := templates.GetTemplate(input.Template)
	if err != nil {
		if errors.Is(err, templates.ErrInvalidTemplate) {
			return InitOutput{Error: fmt.Errorf("invalid template '%s' (choose from %v)", input.Template, templates.Names())}
		}
		return InitOutput{Error: err}
	}

	data := templates.TemplateData{
		Project: templates.DeriveProjectName(input.ProjectDir),
	}

	// Every target is checked before anything is written so a refused init
	// leaves no partial scaffold behind.
	var files []scaffoldFile
	err = fs.WalkDir(templateFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		targetName, isTemplate := templates.ProcessFilename(path)
		targetPath := filepath.Join(input.ProjectDir, filepath.FromSlash(targetName))
		if s.fs.FileExists(targetPath) && !input.Force {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, targetPath)
		}

		files = append(files, scaffoldFile{source: path, target: targetPath, isTemplate: isTemplate})
		return nil
	})
	if err != nil {
		return InitOutput{Error: err}
	}

	var written []string
	for _, f := range files {
		content, err := fs.ReadFile(templateFS, f.source)
		if err != nil {
			return InitOutput{Files: written, Error: fmt.Errorf("failed to read template file %s: %w", f.source, err)}
		}
		if err := s.fs.MkdirAll(filepath.Dir(f.target), 0755); err != nil {
			return InitOutput{Files: written, Error: fmt.Errorf("failed to create directory for %s: %w", f.target, err)}
		}
		if err := s.fs.WriteFile(f.target, templates.ProcessContent(content, f.isTemplate, data), 0644); err != nil {
			return InitOutput{Files: written, Error: fmt.Errorf("failed to write file %s: %w", f.target, err)}
		}

		s.cli.PrintFile(f.target)
		written = append(written, f.target)
	}

	s.cli.PrintSuccess("Created %d files using '%s' template", len(written), input.Template)
	return InitOutput{Files: written}
}

type scaffoldFile struct {
	source     string
	target     string
	isTemplate bool
}
