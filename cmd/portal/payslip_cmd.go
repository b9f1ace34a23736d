package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPayslipCmd(get func() *portal) *cobra.Command {
	payslip := &cobra.Command{
		Use:   "payslip",
		Short: "Payslips",
	}

	var out string
	download := &cobra.Command{
		Use:   "download <id>",
		Short: "Save a payslip as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			if _, _, err := p.requireSession(cmd.Context()); err != nil {
				return err
			}
			pdf, err := p.client.DownloadPayslip(cmd.Context(), args[0])
			if err != nil {
				return p.check(err)
			}
			if out == "" {
				out = fmt.Sprintf("payslip-%s.pdf", args[0])
			}
			if err := os.WriteFile(out, pdf, 0o600); err != nil {
				return err
			}
			fmt.Fprintf(p.out, "Saved %s (%d bytes)\n", out, len(pdf))
			return nil
		},
	}
	download.Flags().StringVarP(&out, "out", "o", "", "output file")

	payslip.AddCommand(download)
	return payslip
}
