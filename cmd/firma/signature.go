package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/disc-ucn/firma/pkg/clipboard"
	"github.com/disc-ucn/firma/pkg/composer"
	"github.com/disc-ucn/firma/pkg/i18n"
	"github.com/disc-ucn/firma/pkg/logger"
	"github.com/disc-ucn/firma/pkg/validator"
)

func composeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Print the signature HTML",
		Long: `Compose renders the signature fragment and prints it to stdout.

Blocking validation errors are reported on stderr but do not stop the
output, so partial drafts can be previewed. Use --lint to fail when
the fragment uses markup mail clients do not support.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logoSize, _ := cmd.Flags().GetInt("logo-size")
			asText, _ := cmd.Flags().GetBool("text")
			lint, _ := cmd.Flags().GetBool("lint")
			lang, _ := cmd.Flags().GetString("lang")

			d, err := loadData(cmd)
			if err != nil {
				return err
			}

			rep := validator.ValidateForm(d)
			if !rep.Valid() {
				if err := printReport(cmd.ErrOrStderr(), rep, lang); err != nil {
					return err
				}
			}

			if asText {
				fmt.Fprint(cmd.OutOrStdout(), composer.PlainText(d))
				return nil
			}

			html := composer.Compose(d, logoSize)
			fmt.Fprintln(cmd.OutOrStdout(), html)

			if lint {
				issues := composer.Lint(html)
				for _, is := range issues {
					fmt.Fprintln(cmd.ErrOrStderr(), is.String())
				}
				if composer.HasErrors(issues) {
					return fmt.Errorf("lint: %d issue(s) found", len(issues))
				}
			}
			return nil
		},
	}

	addDataFlags(cmd)
	cmd.Flags().Int("logo-size", 0, "Logo width in pixels (0 picks it from the number of positions)")
	cmd.Flags().Bool("text", false, "Print the plain-text rendition instead of HTML")
	cmd.Flags().Bool("lint", false, "Check the fragment for mail client compatibility")
	cmd.Flags().String("lang", "es", "Language of validation messages (es, en)")

	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check signature data and report errors and warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, _ := cmd.Flags().GetString("lang")

			d, err := loadData(cmd)
			if err != nil {
				return err
			}

			rep := validator.ValidateForm(d)
			if err := printReport(cmd.OutOrStdout(), rep, lang); err != nil {
				return err
			}
			if !rep.Valid() {
				return errInvalid
			}
			return nil
		},
	}

	addDataFlags(cmd)
	cmd.Flags().String("lang", "es", "Language of validation messages (es, en)")

	return cmd
}

func copyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Compose the signature and place it on the system clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, _ := cmd.Flags().GetString("lang")
			fallback, _ := cmd.Flags().GetString("fallback")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			verbose, _ := cmd.Flags().GetBool("verbose")

			d, err := loadData(cmd)
			if err != nil {
				return err
			}

			rep := validator.ValidateForm(d)
			if !rep.Valid() {
				if err := printReport(cmd.ErrOrStderr(), rep, lang); err != nil {
					return err
				}
				return errInvalid
			}

			sys, err := clipboard.NewSystem()
			if err != nil {
				return err
			}

			level := "warn"
			if verbose {
				level = "debug"
			}
			log := logger.New(logger.Config{Output: cmd.ErrOrStderr(), Level: level, Format: "text"})

			pub := clipboard.NewPublisher(sys,
				clipboard.WithFallback(clipboard.ParseFallback(fallback)),
				clipboard.WithLogger(log),
				clipboard.WithTimeout(timeout),
			)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if !pub.Publish(ctx, composer.Compose(d, 0)) {
				return fmt.Errorf("copy to clipboard via %s failed", sys.Name())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signature for %s copied to the clipboard.\n", d.FullName)
			return nil
		},
	}

	addDataFlags(cmd)
	cmd.Flags().String("lang", "es", "Language of validation messages (es, en)")
	cmd.Flags().String("fallback", string(clipboard.FallbackText), "What to copy when the clipboard only takes text: text or html")
	cmd.Flags().Duration("timeout", 5*time.Second, "Give up on the clipboard utility after this long")
	cmd.Flags().BoolP("verbose", "v", false, "Log clipboard details")

	return cmd
}

// printReport writes the errors and warnings of rep, translated to lang.
func printReport(w io.Writer, rep validator.Report, lang string) error {
	catalog, err := i18n.Default()
	if err != nil {
		return err
	}
	tr := i18n.NewTranslator(catalog, lang)

	errs := append(validator.ValidationErrors(nil), rep.Errors...)
	warns := append(validator.ValidationErrors(nil), rep.Warnings...)
	errs.Translate(tr.TranslateMessage)
	warns.Translate(tr.TranslateMessage)

	for _, e := range errs {
		fmt.Fprintf(w, "error   %-22s %s\n", e.Field, e.Message)
	}
	for _, e := range warns {
		fmt.Fprintf(w, "warning %-22s %s\n", e.Field, e.Message)
	}
	if rep.Valid() {
		fmt.Fprintln(w, tr.T("cli.valid"))
	}
	return nil
}
