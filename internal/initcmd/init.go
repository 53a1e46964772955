// Package initcmd runs the scaffolding and settings checks behind the
// standalone easygen-init and easygen-doctor binaries.
package initcmd

import (
	"context"
	"fmt"

	"github.com/3-lines-studio/easygen/internal/adapters/backend"
	"github.com/3-lines-studio/easygen/internal/adapters/cli"
	"github.com/3-lines-studio/easygen/internal/adapters/fs"
	"github.com/3-lines-studio/easygen/internal/config"
	"github.com/3-lines-studio/easygen/internal/usecase"
)

func Run(out *cli.Output, projectDir string, templateName string, force bool) error {
	service := usecase.NewInitService(fs.NewOSFileSystem(), out)
	result := service.InitProject(usecase.InitInput{
		ProjectDir: projectDir,
		Template:   templateName,
		Force:      force,
	})
	if result.Error != nil {
		return result.Error
	}

	fmt.Fprintln(out.Out())
	out.PrintNotice("Next steps:")
	out.PrintNotice("  register collections with easygen.WithCollection and list their ids under easygen.default.collections")
	out.PrintNotice("  run your application with the export subcommand")
	return nil
}

// CheckSettings validates a settings file and its storage backend. The
// application's collections are not visible from here.
func CheckSettings(ctx context.Context, out *cli.Output, settingsPath, profile string, skipStorage bool) error {
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}

	service := usecase.NewDoctorService(nil, backend.Builtins(), out)
	result := service.CheckProfile(ctx, usecase.DoctorInput{
		Settings:    settings,
		Profile:     profile,
		SkipStorage: skipStorage,
	})
	if !result.Healthy() {
		return fmt.Errorf("%d problem(s) found in %s", len(result.Problems), settingsPath)
	}
	return nil
}
