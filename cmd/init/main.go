package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/3-lines-studio/easygen/internal/adapters/cli"
	"github.com/3-lines-studio/easygen/internal/initcmd"
	"github.com/3-lines-studio/easygen/internal/templates"
)

func main() {
	out := cli.NewOutput()
	template := "filesystem"
	force := false
	projectDir := "."

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--help", "-h":
			printUsage()
			return
		case "--force":
			force = true
		case "--template":
			if i+1 >= len(args) {
				out.PrintError("--template requires a value")
				os.Exit(1)
			}
			template = args[i+1]
			i++
		default:
			if strings.HasPrefix(arg, "-") {
				out.PrintError("unknown option %s", arg)
				os.Exit(1)
			}
			projectDir = arg
		}
	}

	absProjectDir, err := filepath.Abs(projectDir)
	if err != nil {
		out.PrintError("Failed to resolve project directory: %v", err)
		os.Exit(1)
	}

	if err := initcmd.Run(out, absProjectDir, template, force); err != nil {
		out.PrintError("%v", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: easygen-init [options] [project-dir]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Printf("  --template <name>  Storage backend to configure (%s). Default: filesystem\n", strings.Join(templates.Names(), ", "))
	fmt.Println("  --force            Overwrite an existing easygen.yaml")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  easygen-init")
	fmt.Println("  easygen-init --template redis mysite")
	fmt.Println()
	fmt.Println("To check a settings file, use: easygen-doctor")
}
