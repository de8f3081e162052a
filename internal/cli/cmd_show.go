package cli

import (
	"fmt"
	"io"

	"socialnet/internal/repository"
	"socialnet/internal/service"

	"github.com/spf13/cobra"
)

func newShowCommand(out io.Writer, rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print serialized records as JSON",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "user <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return rt.run(cmd, true, func() error {
				users := service.NewUserService(repository.NewUserRepository(rt.db), rt.cfg.BcryptCost)
				profile, err := users.Profile(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeRecord(out, rt.output, profile)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "post <id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return rt.run(cmd, true, func() error {
				post, err := repository.NewPostRepository(rt.db).GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeRecord(out, rt.output, post.Serialize())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "comments <post-id>",
		Short: "Show the comments on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return rt.run(cmd, true, func() error {
				comments, err := repository.NewCommentRepository(rt.db).ListByPost(cmd.Context(), id)
				if err != nil {
					return err
				}
				rows := make([]map[string]any, 0, len(comments))
				for _, c := range comments {
					rows = append(rows, c.Serialize())
				}
				return writeRecord(out, rt.output, rows)
			})
		},
	})

	var feedLimit int
	feed := &cobra.Command{
		Use:   "feed <user-id>",
		Short: "Show posts by the users someone follows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return rt.run(cmd, true, func() error {
				posts, err := newFollowService(rt).Feed(cmd.Context(), id, feedLimit)
				if err != nil {
					return err
				}
				rows := make([]map[string]any, 0, len(posts))
				for _, p := range posts {
					rows = append(rows, p.Serialize())
				}
				return writeRecord(out, rt.output, rows)
			})
		},
	}
	feed.Flags().IntVar(&feedLimit, "limit", 20, "Maximum number of posts")
	cmd.AddCommand(feed)

	var usersLimit, usersOffset int
	users := &cobra.Command{
		Use:   "users",
		Short: "List users ordered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if usersOffset < 0 {
				return usageError(fmt.Errorf("offset must not be negative"))
			}
			return rt.run(cmd, true, func() error {
				svc := service.NewUserService(repository.NewUserRepository(rt.db), rt.cfg.BcryptCost)
				list, err := svc.ListUsers(cmd.Context(), usersLimit, usersOffset)
				if err != nil {
					return err
				}
				rows := make([]map[string]any, 0, len(list))
				for _, u := range list {
					rows = append(rows, u.Serialize())
				}
				return writeRecord(out, rt.output, rows)
			})
		},
	}
	users.Flags().IntVar(&usersLimit, "limit", 20, "Maximum number of users")
	users.Flags().IntVar(&usersOffset, "offset", 0, "Number of users to skip")
	cmd.AddCommand(users)

	return cmd
}

func newFollowService(rt *runtime) *service.FollowService {
	return service.NewFollowService(
		repository.NewFollowerRepository(rt.db),
		repository.NewUserRepository(rt.db),
		repository.NewPostRepository(rt.db),
	)
}
