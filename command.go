package easygen

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/3-lines-studio/easygen/internal/adapters/backend"
	"github.com/3-lines-studio/easygen/internal/adapters/fs"
	easyhttp "github.com/3-lines-studio/easygen/internal/adapters/http"
	"github.com/3-lines-studio/easygen/internal/initcmd"
	"github.com/3-lines-studio/easygen/internal/usecase"
)

const envPrefix = "EASYGEN"

// Command returns the command tree an application mounts, typically as its
// whole CLI:
//
//	if err := app.Command().Execute(); err != nil {
//		os.Exit(1)
//	}
func (a *App) Command() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           filepath.Base(os.Args[0]),
		Short:         "Export the application's pages as static artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if path := v.GetString("config"); path != "" {
				a.configPath = path
			}
			return nil
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().String("config", "", "settings file (default is ./easygen.yaml, or $EASYGEN_CONFIG)")
	_ = v.BindPFlag("config", root.PersistentFlags().Lookup("config"))

	root.AddCommand(a.exportCommand(v))
	root.AddCommand(a.doctorCommand(v))
	root.AddCommand(a.initCommand())
	root.AddCommand(a.previewCommand(v))

	return root
}

// Execute runs the command tree against os.Args and prints a failure to
// the error stream.
func (a *App) Execute() error {
	return a.ExecuteContext(context.Background())
}

func (a *App) ExecuteContext(ctx context.Context) error {
	err := a.Command().ExecuteContext(ctx)
	if err != nil {
		a.output().PrintError("Error: %v", err)
	}
	return err
}

func (a *App) exportCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate static artifacts from the configured collections",
		Args:  cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			_ = v.BindPFlag("profile", cmd.Flags().Lookup("profile"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Export(cmd.Context(), v.GetString("profile"))
		},
	}
	cmd.Flags().String("profile", DefaultProfile, "settings profile under the easygen section ($EASYGEN_PROFILE)")
	return cmd
}

func (a *App) doctorCommand(v *viper.Viper) *cobra.Command {
	var skipStorage bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check a profile without exporting anything",
		Args:  cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			_ = v.BindPFlag("profile", cmd.Flags().Lookup("profile"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Doctor(cmd.Context(), v.GetString("profile"), skipStorage)
		},
	}
	cmd.Flags().String("profile", DefaultProfile, "settings profile to check ($EASYGEN_PROFILE)")
	cmd.Flags().BoolVar(&skipStorage, "skip-storage", false, "do not construct the storage backend")
	return cmd
}

func (a *App) initCommand() *cobra.Command {
	var (
		template string
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter easygen.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}

			return initcmd.Run(a.output(), abs, template, force)
		},
	}
	cmd.Flags().StringVar(&template, "template", "filesystem", "storage backend to configure (filesystem, redis, sql)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
	return cmd
}

// previewCommand serves an exported filesystem profile over HTTP.
func (a *App) previewCommand(v *viper.Viper) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve exported artifacts from a filesystem profile",
		Args:  cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			_ = v.BindPFlag("profile", cmd.Flags().Lookup("profile"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, location, err := a.PreviewHandler(cmd.Context(), v.GetString("profile"))
			if err != nil {
				return err
			}

			out := a.output()
			out.PrintSuccess("Serving %s on http://%s", location, displayAddr(addr))

			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), srv, ln)
		},
	}
	cmd.Flags().String("profile", DefaultProfile, "settings profile to serve ($EASYGEN_PROFILE)")
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	return cmd
}

// serve runs srv on ln until it fails or ctx is done. The server is closed
// on cancellation only while it is still serving.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = srv.Close() })
	defer stop()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// PreviewHandler serves the artifacts of a profile that uses the
// filesystem backend.
func (a *App) PreviewHandler(ctx context.Context, profile string) (http.Handler, string, error) {
	settings, err := a.loadSettings()
	if err != nil {
		return nil, "", err
	}
	if !settings.HasExportConfig() {
		return nil, "", errors.New(usecase.NoticeNoSettings)
	}

	p := settings.Profile(profile)
	if p.FileSystem != backend.FileSystem {
		return nil, "", fmt.Errorf("preview needs a filesystem backend, profile %s uses %s", profile, p.FileSystem)
	}
	factory, err := a.storages.Lookup(p.FileSystem)
	if err != nil {
		return nil, "", err
	}
	storage, err := factory(ctx, p.FileSystemArgs)
	if err != nil {
		return nil, "", err
	}

	local, ok := storage.(*fs.Storage)
	if !ok {
		return nil, "", fmt.Errorf("preview: backend %s does not store files", p.FileSystem)
	}
	return easyhttp.NewArtifactHandler(local), local.Location(), nil
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
