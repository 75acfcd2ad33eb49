package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ehr/hms/internal/directory"
	"github.com/ehr/hms/internal/domain/staff"
	"github.com/ehr/hms/internal/platform/cache"
	"github.com/ehr/hms/internal/platform/events"
)

func staffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Browse and manage the staff directory",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the staff directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			search, _ := flags.GetString("search")
			department, _ := flags.GetString("department")
			role, _ := flags.GetString("role")
			status, _ := flags.GetString("status")
			page, _ := flags.GetInt("page")
			pageSize, _ := flags.GetInt("page-size")

			ctx := context.Background()
			svc, closeFn, err := staffService(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			return runStaffList(ctx, cmd.OutOrStdout(), svc, directory.Request{
				Filter: staff.Filter{
					Search:     search,
					Department: department,
					Role:       role,
					Status:     staff.Status(status),
				},
				// Pages are numbered from 1 on the command line.
				Page:     page - 1,
				PageSize: pageSize,
			})
		},
	}
	listCmd.Flags().String("search", "", "Match name, email, role or department")
	listCmd.Flags().String("department", "", "Only this department")
	listCmd.Flags().String("role", "", "Only this role")
	listCmd.Flags().String("status", "", "Only this status (active, inactive, on-leave)")
	listCmd.Flags().Int("page", 1, "Page number")
	listCmd.Flags().Int("page-size", directory.DefaultPageSize, "Rows per page (5, 10, 25 or 50)")
	cmd.AddCommand(listCmd)

	toggleCmd := &cobra.Command{
		Use:   "toggle",
		Short: "Activate or deactivate a staff member",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawID, _ := cmd.Flags().GetString("id")
			yes, _ := cmd.Flags().GetBool("yes")
			id, err := uuid.Parse(rawID)
			if err != nil {
				return fmt.Errorf("invalid --id %q: %w", rawID, err)
			}

			ctx := context.Background()
			svc, closeFn, err := staffService(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			return runStaffToggle(ctx, cmd.OutOrStdout(), cmd.InOrStdin(), svc, svc, id, yes)
		},
	}
	toggleCmd.Flags().String("id", "", "Staff member id")
	toggleCmd.Flags().Bool("yes", false, "Confirm without prompting")
	_ = toggleCmd.MarkFlagRequired("id")
	cmd.AddCommand(toggleCmd)

	return cmd
}

// staffService builds a staff service over a fresh pool. The CLI does not
// cache facets or publish events.
func staffService(ctx context.Context) (*staff.Service, func(), error) {
	logger := newLogger(os.Stderr, os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	_, pool, err := connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc := staff.NewService(staff.NewRepo(pool), cache.Nop{}, events.Nop{}, nil, logger)
	return svc, pool.Close, nil
}

func runStaffList(ctx context.Context, out io.Writer, src directory.Source, req directory.Request) error {
	view, err := directory.Build(ctx, src, req)
	if err != nil {
		return err
	}
	return directory.Render(out, view)
}

// runStaffToggle shows the confirmation dialog for one staff member and
// applies it when confirmed. Anything other than "y" or "yes" cancels.
func runStaffToggle(ctx context.Context, out io.Writer, in io.Reader, src directory.Source, lookup directory.Lookup, id uuid.UUID, assumeYes bool) error {
	member, err := lookup.Get(ctx, id)
	if err != nil {
		return err
	}
	dialog, err := directory.OpenToggle(src, member)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, dialog.Title())
	fmt.Fprintln(out, dialog.Message())
	if !assumeYes {
		fmt.Fprint(out, "Confirm [y/N]: ")
		answer, _ := bufio.NewReader(in).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
		default:
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	res, err := dialog.Confirm(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, res.Toast)
	return nil
}
