// Package cli provides the command-line interface for shirtsort.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/shirtsort/internal/classifier"
	"github.com/jmylchreest/shirtsort/internal/config"
	imgpkg "github.com/jmylchreest/shirtsort/internal/image"
	"github.com/jmylchreest/shirtsort/internal/version"
)

// app carries per-invocation state shared by the subcommands.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger hclog.Logger

	configPath string
	verbose    bool
	quiet      bool
	logJSON    bool
}

// NewRootCommand builds the shirtsort command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New(), logger: hclog.NewNullLogger()}

	root := &cobra.Command{
		Use:   "shirtsort",
		Short: "Sort photos into groups by the colour of the shirt being worn",
		Long: `shirtsort looks at the garment colour in each photo and groups photos of
the same outfit together, so a batch of event photos can be split into
one folder per day (or per outfit).

Colour comes from an optional image classifier when one is configured,
otherwise from the pixels of the torso area of the photo.`,
		Version:           version.Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetVersionTemplate(version.String() + "\n")

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/shirtsort/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "suppress progress and informational output")
	pf.BoolVar(&a.logJSON, "log-json", false, "write logs as JSON")
	pf.Int("workers", config.DefaultWorkers, "number of photos analysed in parallel")
	pf.String("order", string(imgpkg.OrderInput), "photo order before grouping (input, name, capture)")
	pf.String("classifier", classifier.BackendNone, "classifier backend (none, gemini, plugin)")
	pf.String("classifier-plugin", "", "path to a classifier plugin executable")
	pf.String("classifier-model", classifier.DefaultGeminiModel, "model used by the gemini classifier")
	pf.Bool("allow-private-urls", false, "allow fetching photos from local or private network hosts")

	bindFlags(a.v, pf, map[string]string{
		"workers":            config.KeyWorkers,
		"order":              config.KeyOrder,
		"classifier":         config.KeyClassifierBackend,
		"classifier-plugin":  config.KeyClassifierPlugin,
		"classifier-model":   config.KeyClassifierModel,
		"allow-private-urls": config.KeyAllowPrivateURLs,
	})

	root.AddCommand(newAnalyzeCmd(a))
	root.AddCommand(newGroupCmd(a))
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}

// bindFlags binds each named flag to its configuration key.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if f := fs.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// setup reads the configuration and builds the logger before any subcommand
// runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.logger = newLogger(cmd.ErrOrStderr(), a.verbose, a.quiet, a.logJSON)

	if err := config.ReadFile(a.v, a.configPath); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("loaded config", "file", used)
	}
	return nil
}

// Execute runs the root command and returns the process exit code.
// SIGINT and SIGTERM cancel the command context.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	root.SetOut(os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
