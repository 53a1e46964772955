package templates

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestProcessFilename(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		wantFilename string
		wantIsTmpl   bool
	}{
		{
			name:         "tmpl file gets processed",
			filename:     "easygen.yaml.tmpl",
			wantFilename: "easygen.yaml",
			wantIsTmpl:   true,
		},
		{
			name:         "regular file unchanged",
			filename:     ".env.example",
			wantFilename: ".env.example",
			wantIsTmpl:   false,
		},
		{
			name:         "nested tmpl file",
			filename:     "config/easygen.yaml.tmpl",
			wantFilename: "config/easygen.yaml",
			wantIsTmpl:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFilename, gotIsTmpl := ProcessFilename(tt.filename)
			if gotFilename != tt.wantFilename {
				t.Errorf("ProcessFilename(%q) filename = %q, want %q", tt.filename, gotFilename, tt.wantFilename)
			}
			if gotIsTmpl != tt.wantIsTmpl {
				t.Errorf("ProcessFilename(%q) isTmpl = %v, want %v", tt.filename, gotIsTmpl, tt.wantIsTmpl)
			}
		})
	}
}

func TestProcessContent(t *testing.T) {
	data := TemplateData{
		Project: "blog",
	}

	tests := []struct {
		name       string
		content    string
		isTemplate bool
		want       string
	}{
		{
			name:       "non-template content unchanged",
			content:    "prefix: site",
			isTemplate: false,
			want:       "prefix: site",
		},
		{
			name:       "template with Project placeholder",
			content:    "prefix: \"{{.Project}}:\"",
			isTemplate: true,
			want:       "prefix: \"blog:\"",
		},
		{
			name:       "template content treated as non-template",
			content:    "dsn: {{.Project}}.db",
			isTemplate: false,
			want:       "dsn: {{.Project}}.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProcessContent([]byte(tt.content), tt.isTemplate, data)
			if string(got) != tt.want {
				t.Errorf("ProcessContent(%q) = %q, want %q", tt.content, string(got), tt.want)
			}
		})
	}
}

func TestDeriveProjectName(t *testing.T) {
	tests := []struct {
		name       string
		projectDir string
		want       string
	}{
		{name: "normal directory name", projectDir: "/home/user/blog", want: "blog"},
		{name: "current directory", projectDir: ".", want: "site"},
		{name: "root directory", projectDir: "/", want: "site"},
		{name: "empty directory", projectDir: "", want: "site"},
		{name: "path with multiple components", projectDir: "/path/to/project", want: "project"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveProjectName(tt.projectDir)
			if got != tt.want {
				t.Errorf("DeriveProjectName(%q) = %q, want %q", tt.projectDir, got, tt.want)
			}
		})
	}
}

func TestGetTemplate(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			templateFS, err := GetTemplate(name)
			if err != nil {
				t.Fatalf("GetTemplate(%q) error = %v", name, err)
			}

			content, err := fs.ReadFile(templateFS, "easygen.yaml.tmpl")
			if err != nil {
				t.Fatalf("template %s should include easygen.yaml.tmpl: %v", name, err)
			}

			rendered := ProcessContent(content, true, TemplateData{Project: "blog"})
			if strings.Contains(string(rendered), "{{") {
				t.Errorf("template %s left placeholders behind:\n%s", name, rendered)
			}

			var settings struct {
				Easygen map[string]struct {
					FileSystem string `yaml:"file_system"`
				} `yaml:"easygen"`
			}
			if err := yaml.Unmarshal(rendered, &settings); err != nil {
				t.Fatalf("template %s is not valid YAML: %v", name, err)
			}
			if settings.Easygen["default"].FileSystem != name {
				t.Errorf("template %s default file_system = %q, want %q", name, settings.Easygen["default"].FileSystem, name)
			}
		})
	}

	_, err := GetTemplate("invalid")
	if !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("GetTemplate(invalid) error = %v, want ErrInvalidTemplate", err)
	}
}

func TestNetworkTemplatesShipEnvExample(t *testing.T) {
	for _, name := range []string{"redis", "sql"} {
		templateFS, err := GetTemplate(name)
		if err != nil {
			t.Fatalf("GetTemplate(%q) error = %v", name, err)
		}
		if _, err := fs.ReadFile(templateFS, ".env.example"); err != nil {
			t.Errorf("template %s should include .env.example: %v", name, err)
		}
	}
}
