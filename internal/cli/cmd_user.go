package cli

import (
	"fmt"
	"io"

	"socialnet/internal/repository"
	"socialnet/internal/service"

	"github.com/spf13/cobra"
)

func newUserCommand(out io.Writer, rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var in service.RegisterInput
	register := &cobra.Command{
		Use:   "register",
		Short: "Create an account with a bcrypt-hashed password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.run(cmd, true, func() error {
				users := service.NewUserService(repository.NewUserRepository(rt.db), rt.cfg.BcryptCost)
				user, err := users.Register(cmd.Context(), in)
				if err != nil {
					return err
				}
				return writeRecord(out, rt.output, user.Serialize())
			})
		},
	}
	register.Flags().StringVar(&in.Nickname, "nickname", "", "Unique nickname")
	register.Flags().StringVar(&in.Email, "email", "", "Unique email address")
	register.Flags().StringVar(&in.Password, "password", "", "Plain-text password")
	_ = register.MarkFlagRequired("nickname")
	_ = register.MarkFlagRequired("email")
	_ = register.MarkFlagRequired("password")
	cmd.AddCommand(register)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user with their posts and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return rt.run(cmd, true, func() error {
				users := service.NewUserService(repository.NewUserRepository(rt.db), rt.cfg.BcryptCost)
				if err := users.DeleteAccount(cmd.Context(), id); err != nil {
					return err
				}
				_, err := fmt.Fprintf(out, "deleted user %d\n", id)
				return err
			})
		},
	})

	return cmd
}
