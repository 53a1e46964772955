package templates

import (
	"embed"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

//go:embed all:filesystem
var filesystemFS embed.FS

//go:embed all:redis
var redisFS embed.FS

//go:embed all:sql
var sqlFS embed.FS

var validTemplates = []string{"filesystem", "redis", "sql"}

var ErrInvalidTemplate = errors.New("invalid template name")

func GetTemplate(name string) (fs.FS, error) {
	switch name {
	case "filesystem":
		return fs.Sub(filesystemFS, "filesystem")
	case "redis":
		return fs.Sub(redisFS, "redis")
	case "sql":
		return fs.Sub(sqlFS, "sql")
	default:
		return nil, ErrInvalidTemplate
	}
}

func Names() []string {
	return append([]string(nil), validTemplates...)
}

type TemplateData struct {
	Project string
}

func ProcessFilename(filename string) (string, bool) {
	if before, ok := strings.CutSuffix(filename, ".tmpl"); ok {
		return before, true
	}
	return filename, false
}

func ProcessContent(content []byte, isTemplate bool, data TemplateData) []byte {
	if !isTemplate {
		return content
	}

	return []byte(strings.ReplaceAll(string(content), "{{.Project}}", data.Project))
}

func DeriveProjectName(projectDir string) string {
	base := filepath.Base(projectDir)
	if base == "." || base == "/" || base == "" {
		return "site"
	}
	return base
}
