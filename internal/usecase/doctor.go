package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/3-lines-studio/easygen/internal/config"
	"github.com/3-lines-studio/easygen/internal/types"
)

type DoctorInput struct {
	Settings *config.Settings
	Profile  string
	// SkipStorage leaves the backend untouched, for backends that need a
	// network the check cannot reach.
	SkipStorage bool
}

type DoctorOutput struct {
	Problems []string
	Error    error
}

func (o DoctorOutput) Healthy() bool {
	return len(o.Problems) == 0 && o.Error == nil
}

// DoctorService checks a profile without exporting anything. Collections is
// optional: standalone binaries cannot see the application's collections.
type DoctorService struct {
	collections Registry[types.CollectionFactory]
	storages    Registry[types.StorageFactory]
	cli         CLIOutput
}

func NewDoctorService(collections Registry[types.CollectionFactory], storages Registry[types.StorageFactory], cli CLIOutput) *DoctorService {
	return &DoctorService{
		collections: collections,
		storages:    storages,
		cli:         cli,
	}
}

func (s *DoctorService) CheckProfile(ctx context.Context, input DoctorInput) DoctorOutput {
	s.cli.PrintHeader("easygen doctor")

	if !input.Settings.HasExportConfig() {
		s.cli.PrintWarning(NoticeNoSettings)
		return DoctorOutput{Problems: []string{NoticeNoSettings}}
	}

	var problems []string
	fail := func(msg string, args ...any) {
		formatted := fmt.Sprintf(msg, args...)
		problems = append(problems, formatted)
		s.cli.PrintError("✗ %s", formatted)
	}

	if _, ok := input.Settings.Easygen[input.Profile]; !ok {
		s.cli.PrintWarning("Profile %q is not defined, defaults apply", input.Profile)
	}

	profile := input.Settings.Profile(input.Profile)
	if err := profile.Validate(input.Profile); err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				fail("%s", p)
			}
		} else {
			fail("%v", err)
		}
	}

	if input.SkipStorage {
		s.cli.PrintWarning("Storage %s not checked", profile.FileSystem)
	} else if err := s.checkStorage(ctx, profile); err != nil {
		fail("storage %s: %v", profile.FileSystem, err)
	} else {
		s.cli.PrintSuccess("Storage %s is reachable", profile.FileSystem)
	}

	if s.collections == nil {
		s.cli.PrintWarning("Collections not checked: run doctor from the application binary")
	} else {
		for _, id := range profile.Collections {
			if _, err := s.collections.Lookup(id); err != nil {
				fail("collection %s is not registered", id)
				continue
			}
			s.cli.PrintSuccess("Collection %s is registered", id)
		}
	}

	if len(problems) == 0 {
		s.cli.PrintDone("Profile " + input.Profile + " looks good")
	}
	return DoctorOutput{Problems: problems}
}

func (s *DoctorService) checkStorage(ctx context.Context, profile config.Profile) error {
	factory, err := s.storages.Lookup(profile.FileSystem)
	if err != nil {
		return err
	}
	storage, err := factory(ctx, profile.FileSystemArgs)
	if err != nil {
		return err
	}
	if closer, ok := storage.(io.Closer); ok {
		_ = closer.Close()
	}
	return nil
}
