package main

import (
	"fmt"

	"github.com/dhchicaiza/registros/internal/config"
	"github.com/dhchicaiza/registros/internal/lib/email"
	"github.com/dhchicaiza/registros/internal/logger"
	"github.com/spf13/cobra"
)

var emailTemplate string

var emailPreviewCmd = &cobra.Command{
	Use:   "email-preview",
	Short: "Render an email template with sample data to stdout",
	RunE:  runEmailPreview,
}

func init() {
	emailPreviewCmd.Flags().StringVar(&emailTemplate, "template", string(email.TemplateRegistroCreated), "Template to render")
}

func runEmailPreview(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Observability)

	client, err := email.NewClient(cfg, &log)
	if err != nil {
		return err
	}

	name := email.Template(emailTemplate)
	data, ok := email.PreviewData[name]
	if !ok {
		return fmt.Errorf("unknown template %q", emailTemplate)
	}

	html, err := client.Render(name, data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
	return err
}
