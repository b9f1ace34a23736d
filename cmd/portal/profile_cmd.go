package main

import (
	"fmt"

	"hr-portal/internal/portal/gateway"

	"github.com/spf13/cobra"
)

func newProfileCmd(get func() *portal) *cobra.Command {
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Your profile",
	}

	var name, department, designation, phone, presence string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			sess, _, err := p.requireSession(cmd.Context())
			if err != nil {
				return err
			}

			var upd gateway.ProfileUpdate
			set := func(flag string, v *string) *string {
				if cmd.Flags().Changed(flag) {
					return v
				}
				return nil
			}
			upd.Name = set("name", &name)
			upd.Department = set("department", &department)
			upd.Designation = set("designation", &designation)
			upd.Phone = set("phone", &phone)
			upd.Presence = set("presence", &presence)

			u, err := p.client.UpdateProfile(cmd.Context(), sess.UserID, upd)
			if err != nil {
				return p.check(err)
			}
			fmt.Fprintf(p.out, "Profile updated: %s, %s, %s\n", u.Name, u.Department, u.Presence)
			return nil
		},
	}
	f := update.Flags()
	f.StringVar(&name, "name", "", "display name")
	f.StringVar(&department, "department", "", "department")
	f.StringVar(&designation, "designation", "", "designation")
	f.StringVar(&phone, "phone", "", "phone")
	f.StringVar(&presence, "presence", "", "Active, On Leave or Remote")

	profile.AddCommand(update)
	return profile
}
