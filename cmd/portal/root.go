package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		opts options
		p    *portal
	)

	root := &cobra.Command{
		Use:           "portal",
		Short:         "Terminal client for the HR portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			p, err = newPortal(cmd.OutOrStdout(), opts)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if p != nil {
				p.close()
			}
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default ./config.yaml)")
	flags.StringVar(&opts.baseURL, "base-url", "", "backend origin, overrides PORTAL_BASE_URL")
	flags.StringVar(&opts.sessionFile, "session-file", "", "session file, overrides PORTAL_SESSION_FILE")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "client log level")

	get := func() *portal { return p }
	root.AddCommand(
		newLoginCmd(get),
		newSignupCmd(get),
		newLogoutCmd(get),
		newStatusCmd(get),
		newMenuCmd(get),
		newPageCmd(get),
		newListCmd(get),
		newResolveCmd(get, "approve"),
		newResolveCmd(get, "reject"),
		newLeaveCmd(get),
		newTicketCmd(get),
		newApprovalCmd(get),
		newProfileCmd(get),
		newPayslipCmd(get),
		newPolicyCmd(get),
		newChatCmd(get),
	)
	return root
}
