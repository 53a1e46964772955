package usecase

import (
	"io"
	"time"

	"github.com/3-lines-studio/easygen/internal/adapters/fs"
)

type CLIOutput interface {
	PrintHeader(msg string)
	PrintNotice(msg string, args ...any)
	PrintSuccess(msg string, args ...any)
	PrintWarning(msg string, args ...any)
	PrintError(msg string, args ...any)
	PrintFile(path string)
	PrintDone(msg string)

	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string

	Out() io.Writer
}

// Registry looks up factories by the identifier used in settings.
type Registry[T any] interface {
	Lookup(name string) (T, error)
}

type MetricsRecorder interface {
	Item(collection, outcome string)
	CollectionFailed(collection string)
	Finish(duration time.Duration, at time.Time)
	WriteTextfile(path string) error
}

type FileSystem = fs.FileSystem
