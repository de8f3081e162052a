package cli

import (
	"fmt"
	"io"

	"socialnet/internal/seed"

	"github.com/spf13/cobra"
)

func newSeedCommand(out io.Writer, rt *runtime) *cobra.Command {
	var opts seed.Options

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with fake users, posts, comments and follows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.NumUsers < 0 || opts.NumPosts < 0 || opts.NumFollows < 0 || opts.CommentsPerPost < 0 {
				return usageError(fmt.Errorf("counts must not be negative"))
			}
			return rt.run(cmd, true, func() error {
				opts.BcryptCost = rt.cfg.BcryptCost
				summary, err := seed.NewSeeder(rt.db).Run(cmd.Context(), opts)
				if err != nil {
					return fmt.Errorf("seed failed: %w", err)
				}
				_, err = fmt.Fprintf(out, "seeded users=%d posts=%d comments=%d follows=%d\n",
					summary.Users, summary.Posts, summary.Comments, summary.Follows)
				return err
			})
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.NumUsers, "users", 10, "Number of users to create")
	flags.IntVar(&opts.NumPosts, "posts", 30, "Number of posts to create")
	flags.IntVar(&opts.NumFollows, "follows", 20, "Number of follower edges to create")
	flags.IntVar(&opts.CommentsPerPost, "comments", 2, "Maximum comments per post")
	flags.BoolVar(&opts.ShouldClean, "clean", false, "Delete existing rows first")
	flags.BoolVar(&opts.SkipBcrypt, "skip-bcrypt", false, "Store the seed password unhashed")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "Build data without writing it")
	flags.Int64Var(&opts.RandomSeed, "seed", 0, "Random seed (0 picks one)")
	return cmd
}
