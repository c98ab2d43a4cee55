package commands

import (
	"slices"

	"github.com/spf13/cobra"
	"go.trai.ch/tandem/internal/app"
	"go.trai.ch/tandem/internal/core/domain"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [tasks...]",
		Short: "Run tasks with their prerequisites",
		Long: "Run tasks one after another. Each task runs its prerequisites first, exactly once per invocation.\n" +
			"`tandem run " + domain.HelpTaskName + "` lists the available tasks.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			if slices.Contains(args, domain.HelpTaskName) {
				return c.printTasks(cmd)
			}

			allInterfaces, _ := cmd.Flags().GetBool("all-interfaces")
			env, _ := cmd.Flags().GetStringArray("env")
			envFile, _ := cmd.Flags().GetString("env-file")
			noDotenv, _ := cmd.Flags().GetBool("no-dotenv")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			ci, _ := cmd.Flags().GetBool("ci")

			return c.app.Run(cmd.Context(), args, app.RunOptions{
				AllInterfaces: allInterfaces,
				Env:           env,
				EnvFile:       envFile,
				NoDotenv:      noDotenv,
				DryRun:        dryRun,
				ConfigPath:    c.configPath,
				CI:            ci,
			})
		},
	}
	cmd.Flags().BoolP("all-interfaces", "a", false, "Bind dev and preview servers to 0.0.0.0 instead of 127.0.0.1")
	cmd.Flags().StringArrayP("env", "e", nil, "Set an environment override KEY=VALUE (repeatable)")
	cmd.Flags().String("env-file", "", "Read overrides from this file instead of <root>/"+domain.DotenvFileName)
	cmd.Flags().Bool("no-dotenv", false, "Do not read a dotenv file")
	cmd.Flags().BoolP("dry-run", "n", false, "Print the steps without running them")
	cmd.Flags().Bool("ci", false, "Use plain pipes and basic colors even on a terminal")
	cmd.MarkFlagsMutuallyExclusive("env-file", "no-dotenv")
	return cmd
}
