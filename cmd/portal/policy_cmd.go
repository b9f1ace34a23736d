package main

import (
	"fmt"
	"os"
	"path/filepath"

	"hr-portal/internal/portal/view"

	"github.com/spf13/cobra"
)

func newPolicyCmd(get func() *portal) *cobra.Command {
	policy := &cobra.Command{
		Use:   "policy",
		Short: "Company policy documents (Settings)",
	}

	var title, file string
	upload := &cobra.Command{
		Use:   "upload",
		Short: "Upload a PDF policy document as a draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			if err := p.requireSettings(cmd); err != nil {
				return err
			}
			content, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			doc, err := p.client.UploadPolicy(cmd.Context(), title, filepath.Base(file), content)
			if err != nil {
				return p.check(err)
			}
			fmt.Fprintf(p.out, "Uploaded %q as draft %s\n", doc.Title, doc.ID)
			return nil
		},
	}
	upload.Flags().StringVar(&title, "title", "", "document title")
	upload.Flags().StringVar(&file, "file", "", "path to the PDF")
	_ = upload.MarkFlagRequired("title")
	_ = upload.MarkFlagRequired("file")

	publish := &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a draft so employees can read it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			if err := p.requireSettings(cmd); err != nil {
				return err
			}
			doc, err := p.client.PublishPolicy(cmd.Context(), args[0])
			if err != nil {
				return p.check(err)
			}
			fmt.Fprintf(p.out, "Published %q\n", doc.Title)
			return nil
		},
	}

	policy.AddCommand(upload, publish)
	return policy
}

func (p *portal) requireSettings(cmd *cobra.Command) error {
	_, router, err := p.requireSession(cmd.Context())
	if err != nil {
		return err
	}
	return router.Select(view.PageSettings)
}
