package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/ticketgest/internal/extract"
	"github.com/dgallion1/ticketgest/internal/loader"
	"github.com/dgallion1/ticketgest/internal/onecall"
	"github.com/dgallion1/ticketgest/internal/pipeline"
	"github.com/dgallion1/ticketgest/internal/report"
	"github.com/spf13/cobra"
)

func (a *app) extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Extract tickets and print their reports",
		Long: `Extract a ticket from each FILE and print its report.

With --out-dir each Diggers or IUPPS report is written to its ticket
filename inside that directory instead. A file with no visible ticket
region is reported and skipped; the command fails if any file fails.

Example:
  ticketx extract case.html --origin https://org.lightning.force.com
  ticketx extract mail.txt --format iupps --out-dir reports/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, ok := extract.ParseFormat(a.v.GetString("format"))
			if !ok {
				return fmt.Errorf("unknown --format %q", a.v.GetString("format"))
			}
			outDir := a.v.GetString("out-dir")
			asJSON := a.v.GetBool("json")

			ext := a.extractor()
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				out, err := ext.Extract(pipeline.Input{
					Filename: filepath.Base(path),
					Data:     data,
					Format:   format,
					Origin:   a.v.GetString("origin"),
				})
				if err != nil {
					failed++
					if errors.Is(err, extract.ErrNotFound) {
						a.log.Warn("no ticket found", "file", path)
					} else {
						a.log.Error("extraction failed", "file", path, "error", err)
					}
					continue
				}
				if len(out.Missing) > 0 {
					a.log.Info("partial extraction", "file", path, "missing", out.Missing)
				}

				switch {
				case asJSON:
					if err := a.printJSON(out); err != nil {
						return err
					}
				case outDir != "" && out.Result.Filename != "":
					dest := reportPath(outDir, out)
					if err := os.WriteFile(dest, []byte(out.Report+"\n"), 0o644); err != nil {
						return fmt.Errorf("write %s: %w", dest, err)
					}
					fmt.Fprintln(a.out, dest)
				default:
					fmt.Fprintln(a.out, out.Report)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().String("format", "auto", "ticket format: auto, diggers, iupps or attachments")
	cmd.Flags().String("out-dir", "", "write reports into this directory")
	cmd.Flags().Bool("json", false, "print the full extraction as JSON")
	a.bind(cmd.Flags())
	return cmd
}

// reportPath is where --out-dir writes a report. A fallback filename, or one
// already holding a different report, gets the content hash appended.
func reportPath(dir string, out *pipeline.Outcome) string {
	dest := filepath.Join(dir, out.Result.Filename)
	unique := out.Result.DefaultName()
	if existing, err := os.ReadFile(dest); err == nil && string(existing) != out.Report+"\n" {
		unique = true
	}
	if !unique {
		return dest
	}
	ext := filepath.Ext(out.Result.Filename)
	base := strings.TrimSuffix(out.Result.Filename, ext)
	return filepath.Join(dir, base+"-"+out.ContentHash[:8]+ext)
}

func (a *app) detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect FILE",
		Short: "Print the ticket format of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			l, err := loader.ForFile(path, loader.Options{PDFFallbackPdftotext: a.v.GetBool("pdftotext")})
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			doc, err := l.Load(f, filepath.Base(path), a.v.GetString("origin"))
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			format := extract.Detect(doc)
			if format == extract.FormatUnknown {
				fmt.Fprintln(a.out, "unknown")
				return nil
			}
			fmt.Fprintln(a.out, format)
			return nil
		},
	}
}

func (a *app) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve HREF",
		Short: "Rewrite an attachment link to its download URL",
		Long: `Rewrite an attachment link to its download URL and print the URL and
the rule that produced it. --origin is required for content-document
links.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, rule := extract.ClassifyAttachmentURL(args[0], a.v.GetString("origin"))
			if rule == "" {
				rule = "unchanged"
			}
			fmt.Fprintf(a.out, "%s\t%s\n", u, rule)
			return nil
		},
	}
}

func (a *app) sanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize TEXT...",
		Short: "Turn text into a safe file name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.out, extract.SanitizeFilename(strings.Join(args, " ")))
			return nil
		},
	}
}

func (a *app) parseReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse-report FILE",
		Short: "Parse a ticket report and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rep, err := report.Parse(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			return a.printJSON(map[string]any{
				"filename":    rep.Filename,
				"info":        rep.Info,
				"coordinate1": rep.Coord1,
				"coordinate2": rep.Coord2,
				"bounds":      rep.Bounds(),
				"contact":     rep.Contact(),
				"first_name":  rep.FirstName(),
			})
		},
	}
}

func (a *app) onecallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onecall FILE",
		Short: "Print customer and location details of a OneCall XML ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			t, err := onecall.Parse(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			return a.printJSON(t)
		},
	}
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
