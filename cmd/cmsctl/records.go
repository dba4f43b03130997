package main

import (
	"context"
	"encoding/json"
	"fmt"

	"clearview/internal/domain"
	"clearview/internal/domain/models/records"
	recordsRepo "clearview/internal/domain/repositories/records"
	recordsSvc "clearview/internal/domain/services/records"

	"github.com/spf13/cobra"
)

func (a *app) recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage soft-deletable records",
		Long: `Manage soft-deletable records.

Kinds: testimonials, customers, appointments`,
	}
	cmd.AddCommand(
		a.recordsListCmd(),
		a.recordsCreateCmd(),
		a.recordsTransitionCmd("delete", "Soft-delete a record", recordsSvc.RecordSet.SoftDelete),
		a.recordsTransitionCmd("restore", "Restore a soft-deleted record", recordsSvc.RecordSet.Restore),
		a.recordsPurgeCmd(),
		a.recordsActivateCmd(),
	)
	return cmd
}

func (a *app) recordSet(cmd *cobra.Command, kind string) (recordsSvc.RecordSet, error) {
	st, err := a.openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	return st.Records.Get(kind)
}

func (a *app) recordsListCmd() *cobra.Command {
	var state string
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List records, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.recordSet(cmd, args[0])
			if err != nil {
				return printResult[any](cmd.OutOrStdout(), nil, err)
			}
			list, err := set.List(cmd.Context(), recordsRepo.ListFilter{State: recordsRepo.StateFilter(state)})
			return printResult(cmd.OutOrStdout(), list, err)
		},
	}
	cmd.Flags().StringVar(&state, "state", string(recordsRepo.FilterActive), "active, deleted or all")
	return cmd
}

func (a *app) recordsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <kind> <json>",
		Short: "Create a record from a JSON payload",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.recordSet(cmd, args[0])
			if err != nil {
				return printResult[any](cmd.OutOrStdout(), nil, err)
			}
			record := set.New()
			if err := json.Unmarshal([]byte(args[1]), record); err != nil {
				return printResult[any](cmd.OutOrStdout(), nil, fmt.Errorf("%w: invalid JSON payload: %v", domain.ErrValidation, err))
			}
			created, err := set.Create(cmd.Context(), record)
			return printResult(cmd.OutOrStdout(), created, err)
		},
	}
}

func (a *app) recordsTransitionCmd(
	use, short string,
	apply func(recordsSvc.RecordSet, context.Context, string) (records.Record, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <kind> <id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.recordSet(cmd, args[0])
			if err != nil {
				return printResult[any](cmd.OutOrStdout(), nil, err)
			}
			record, err := apply(set, cmd.Context(), args[1])
			return printResult(cmd.OutOrStdout(), record, err)
		},
	}
}

func (a *app) recordsPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <kind> <id>",
		Short: "Permanently delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.recordSet(cmd, args[0])
			if err != nil {
				return printResult[any](cmd.OutOrStdout(), nil, err)
			}
			err = set.PermanentDelete(cmd.Context(), args[1])
			return printResult(cmd.OutOrStdout(), map[string]string{"id": args[1]}, err)
		},
	}
}

func (a *app) recordsActivateCmd() *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "activate <kind> <id>",
		Short: "Publish a record (or unpublish with --off)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.recordSet(cmd, args[0])
			if err != nil {
				return printResult[any](cmd.OutOrStdout(), nil, err)
			}
			record, err := set.SetActive(cmd.Context(), args[1], !off)
			return printResult(cmd.OutOrStdout(), record, err)
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "unpublish instead")
	return cmd
}
