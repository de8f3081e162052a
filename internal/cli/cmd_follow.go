package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

func newFollowCommand(out io.Writer, rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Manage follower edges",
	}

	var date string
	add := &cobra.Command{
		Use:   "add <follower-id> <followed-id>",
		Short: "Make one user follow another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			followerID, followedID, err := parseIDPair(args)
			if err != nil {
				return err
			}
			var when *time.Time
			if date != "" {
				parsed, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return usageError(fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date))
				}
				when = &parsed
			}
			return rt.run(cmd, true, func() error {
				edge, err := newFollowService(rt).Follow(cmd.Context(), followerID, followedID, when)
				if err != nil {
					return err
				}
				return writeRecord(out, rt.output, edge.Serialize())
			})
		},
	}
	add.Flags().StringVar(&date, "date", "", "Follow date as YYYY-MM-DD (default today)")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <follower-id> <followed-id>",
		Short: "Remove every edge between two users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			followerID, followedID, err := parseIDPair(args)
			if err != nil {
				return err
			}
			return rt.run(cmd, true, func() error {
				if err := newFollowService(rt).Unfollow(cmd.Context(), followerID, followedID); err != nil {
					return err
				}
				_, err := fmt.Fprintf(out, "user %d no longer follows user %d\n", followerID, followedID)
				return err
			})
		},
	})

	return cmd
}

func parseIDPair(args []string) (uint, uint, error) {
	a, err := parseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := parseID(args[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
