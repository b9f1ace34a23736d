package main

import (
	"errors"
	"fmt"
	"strings"

	"hr-portal/internal/portal/gateway"

	"github.com/spf13/cobra"
)

func newChatCmd(get func() *portal) *cobra.Command {
	var employeeID string

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the HR assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			if _, _, err := p.requireSession(cmd.Context()); err != nil {
				return err
			}

			reply, err := p.client.Chat(cmd.Context(), strings.Join(args, " "), employeeID)
			if errors.Is(err, gateway.ErrUnreachable) {
				p.logger.Warn("chat request failed")
				return fmt.Errorf("%w: %w", errChatUnreachable, err)
			}
			if err != nil {
				return p.check(err)
			}
			fmt.Fprintln(p.out, reply)
			return nil
		},
	}
	cmd.Flags().StringVar(&employeeID, "employee", "", "employee id to ask about (HR only, defaults to you)")
	return cmd
}
