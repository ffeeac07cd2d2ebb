package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/proposalflow-backend/internal/app"
	"github.com/heartmarshall/proposalflow-backend/internal/app/seeder"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage the user directory",
	}
	cmd.AddCommand(usersSeedCmd(), usersListCmd())
	return cmd
}

func usersSeedCmd() *cobra.Command {
	var (
		file   string
		dryRun bool
		batch  int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert users from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg.Log)

			seederCfg, err := seeder.LoadConfig()
			if err != nil {
				return err
			}
			if file != "" {
				seederCfg.UsersFile = file
			}
			if cmd.Flags().Changed("dry-run") {
				seederCfg.DryRun = dryRun
			}
			if cmd.Flags().Changed("batch-size") {
				seederCfg.BatchSize = batch
			}
			if err := seederCfg.Validate(); err != nil {
				return err
			}

			users, err := seeder.LoadUsers(seederCfg.UsersFile)
			if err != nil {
				return err
			}

			// The directory is seeded explicitly here, not from storage.seed_file.
			cfg.Storage.SeedFile = ""
			st, err := app.OpenStorage(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := seeder.New(logger, st.Users, st.Tx, *seederCfg).Run(cmd.Context(), users)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "upserted %d users, skipped %d\n", res.Upserted, res.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "users YAML file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the file without writing")
	cmd.Flags().IntVar(&batch, "batch-size", 100, "users per transaction")
	return cmd
}

func usersListCmd() *cobra.Command {
	var (
		query string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search the user directory by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			st, err := app.OpenStorage(cmd.Context(), cfg, app.NewLogger(cfg.Log))
			if err != nil {
				return err
			}
			defer st.Close()

			users, err := st.Users.Search(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tROLE\tNAME")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", u.ID, u.Role, u.Name)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "name substring")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of users")
	return cmd
}
