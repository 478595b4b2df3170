// Package main provides the minerva command line tool for working with
// deadlines and documents without the web server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"minerva_app_go/services"
	"minerva_app_go/services/i18n"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		lang    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "minerva",
		Short: "Legal assistant tools for El Salvador",
		Long: `minerva computes procedural deadlines and renders legal documents
from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				zap.ReplaceGlobals(logger)
			}
			return i18n.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&lang, "lang", "es", "Output language (es, en)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")

	cmd.AddCommand(deadlineCmd(&lang), rulesCmd(&lang), templatesCmd(), renderCmd(), keygenCmd())
	return cmd
}

func deadlineCmd(lang *string) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "deadline <case-type>",
		Short: "Compute the due date for a case type",
		Example: `  minerva deadline contestacion --start 2024-01-15
  minerva deadline casacion`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate := services.Today()
			if start != "" {
				parsed, err := services.ParseDate(start)
				if err != nil {
					return err
				}
				startDate = parsed
			}

			result := services.ComputeDeadline(args[0], startDate)
			days := services.DaysLeft(result.DueDate, services.LocalNow())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", services.RuleDescription(*lang, result.Rule))
			fmt.Fprintf(out, "%s: %s\n", i18n.Translate(*lang, "deadlines.due"), result.DueDate.Format("2006-01-02"))
			fmt.Fprintf(out, "%d %s\n", result.Rule.BusinessDays, i18n.Translate(*lang, "deadlines.business_days"))
			fmt.Fprintf(out, "%d %s (%s)\n", days, i18n.Translate(*lang, "deadlines.days_left"),
				i18n.Translate(*lang, "deadlines.priority."+services.DeadlinePriority(days)))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD), defaults to today")
	return cmd
}

func rulesCmd(lang *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the case types and their terms",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, r := range services.CaseTypeRules() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %3d  %s\n", r.Code, r.BusinessDays, services.RuleDescription(*lang, r))
			}
		},
	}
}

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the document templates and their fields",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, t := range services.DocumentTemplates() {
				fmt.Fprintf(out, "%s\t%s\n", t.ID, t.Title)
				for _, f := range t.Fields {
					marker := " "
					if f.Required {
						marker = "*"
					}
					fmt.Fprintf(out, "  %s %-14s %-9s %s\n", marker, f.Name, f.Type, f.Label)
				}
			}
		},
	}
}

func renderCmd() *cobra.Command {
	var (
		templateID string
		title      string
		author     string
		caseNumber string
		bodyFile   string
		output     string
		pdf        bool
		chromePath string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Wrap a document body in the legal document layout",
		Long: `render reads a document body (plain text) and writes the printable
HTML document, or a PDF when --pdf is set.`,
		Example: `  minerva render --template demanda --body-file demanda.txt --out demanda.html
  minerva render --template apelacion --body-file apelacion.txt --pdf --out apelacion.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, ok := services.GetDocumentTemplate(templateID)
			if !ok {
				return fmt.Errorf("%w: %s", services.ErrTemplateNotFound, templateID)
			}
			if title == "" {
				title = tmpl.Title
			}

			body, err := readBody(cmd.InOrStdin(), bodyFile)
			if err != nil {
				return err
			}

			html, err := services.RenderDocumentHTML(services.GeneratedDocument{
				TemplateID: tmpl.ID,
				Title:      title,
				Content:    body,
				Metadata: services.DocumentMetadata{
					CreatedAt:  time.Now(),
					Author:     author,
					CaseNumber: caseNumber,
				},
			})
			if err != nil {
				return err
			}

			data := []byte(html)
			if pdf {
				printer := services.NewChromePrinter(chromePath, time.Minute)
				file, err := printer.RenderToFile(context.Background(), html)
				if err != nil {
					return err
				}
				data = file.Data
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, 0644)
		},
	}

	cmd.Flags().StringVarP(&templateID, "template", "t", "", "Template id (see 'minerva templates')")
	cmd.Flags().StringVar(&title, "title", "", "Document title, defaults to the template title")
	cmd.Flags().StringVar(&author, "author", "Usuario", "Author shown in the document")
	cmd.Flags().StringVar(&caseNumber, "case-number", "", "Case file number")
	cmd.Flags().StringVarP(&bodyFile, "body-file", "f", "-", "File with the document body, - for stdin")
	cmd.Flags().StringVarP(&output, "out", "o", "-", "Output file, - for stdout")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "Print to PDF with headless Chrome")
	cmd.Flags().StringVar(&chromePath, "chrome", os.Getenv("CHROME_PATH"), "Chrome executable")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

func readBody(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document body: %w", err)
	}

	body := strings.TrimSpace(string(data))
	if body == "" {
		return "", fmt.Errorf("document body is empty")
	}
	return body, nil
}

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a DATA_ENCRYPTION_KEY value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := services.GenerateEncryptionKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}
