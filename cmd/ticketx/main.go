// Command ticketx extracts locate tickets from saved pages and documents on
// the command line.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dgallion1/ticketgest/internal/loader"
	"github.com/dgallion1/ticketgest/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var version = "0.1.0"

// app carries the settings shared by every subcommand. Flags, TICKETX_*
// environment variables and defaults are merged through v.
type app struct {
	v   *viper.Viper
	out io.Writer
	log *slog.Logger
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out}
	a.v.SetEnvPrefix("TICKETX")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "ticketx",
		Short: "Extract locate tickets from saved pages",
		Long: `ticketx reads saved ticket pages (HTML) and exported documents
(TXT, CSV, MD, PDF, DOCX) and extracts Diggers Hotline tickets, IUPPS
tickets and attachment download lists.

Every flag can also be set as TICKETX_<FLAG>, for example
TICKETX_ORIGIN=https://org.lightning.force.com.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(a.v.GetString("log-level"))); err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			a.log = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("origin", "", "page URL or scheme://host the input was captured from")
	pf.Bool("pdftotext", true, "fall back to the pdftotext binary for unreadable PDFs")
	a.bind(pf)

	root.AddCommand(
		a.extractCmd(),
		a.detectCmd(),
		a.resolveCmd(),
		a.sanitizeCmd(),
		a.parseReportCmd(),
		a.onecallCmd(),
	)
	return root
}

func (a *app) extractor() *pipeline.Extractor {
	return pipeline.NewExtractor(loader.Options{
		PDFFallbackPdftotext: a.v.GetBool("pdftotext"),
	}, nil, a.log)
}

// bind makes every flag in fs readable through a.v, so TICKETX_* variables
// fill flags left unset.
func (a *app) bind(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = a.v.BindPFlag(f.Name, f)
	})
}
