package main

import (
	"encoding/json"
	"fmt"

	"clearview/internal/domain"
	"clearview/internal/domain/models/content"
	contentSvc "clearview/internal/domain/services/content"

	"github.com/spf13/cobra"
)

func (a *app) contentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Manage ordered content collections",
		Long: `Manage ordered content collections.

Collections: faqs, about-sections, home-values, services`,
	}
	cmd.AddCommand(
		a.contentListCmd(),
		a.contentAppendCmd(),
		a.contentAppendFAQCmd(),
		a.contentReorderCmd(),
		a.contentRemoveCmd(),
		a.contentRestoreCmd(),
	)
	return cmd
}

// collection resolves a collection argument against the opened store
func (a *app) collection(cmd *cobra.Command, name string) (contentSvc.OrderedCollection, error) {
	st, err := a.openStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	return st.Collections.Get(name)
}

func (a *app) contentListCmd() *cobra.Command {
	var deleted bool
	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "List a collection in display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(cmd, args[0])
			if err != nil {
				return printResult[any](cmd.OutOrStdout(), nil, err)
			}
			var items []content.Item
			if deleted {
				items, err = c.ListDeleted(cmd.Context())
			} else {
				items, err = c.List(cmd.Context())
			}
			return printResult(cmd.OutOrStdout(), items, err)
		},
	}
	cmd.Flags().BoolVar(&deleted, "deleted", false, "list soft-removed items instead")
	return cmd
}

func (a *app) contentAppendCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "append <collection> <json>",
		Short:   "Append an item given as a JSON payload",
		Example: `  cmsctl content append home-values '{"title":"Expert care","description":"..."}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(cmd, args[0])
			if err != nil {
				return printResult[any](cmd.OutOrStdout(), nil, err)
			}
			item := c.New()
			if err := json.Unmarshal([]byte(args[1]), item); err != nil {
				return printResult[any](cmd.OutOrStdout(), nil, fmt.Errorf("%w: invalid JSON payload: %v", domain.ErrValidation, err))
			}
			created, err := c.Append(cmd.Context(), item)
			return printResult(cmd.OutOrStdout(), created, err)
		},
	}
}

func (a *app) contentAppendFAQCmd() *cobra.Command {
	var question, answer string
	cmd := &cobra.Command{
		Use:   "append-faq",
		Short: "Append a FAQ to the end of the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(cmd, string(content.CollectionFAQs))
			if err != nil {
				return printResult[any](cmd.OutOrStdout(), nil, err)
			}
			created, err := c.Append(cmd.Context(), &content.FAQ{Question: question, Answer: answer})
			return printResult(cmd.OutOrStdout(), created, err)
		},
	}
	cmd.Flags().StringVarP(&question, "question", "q", "", "question text")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "answer text")
	return cmd
}

func (a *app) contentReorderCmd() *cobra.Command {
	var etag string
	cmd := &cobra.Command{
		Use:   "reorder <collection> <id>...",
		Short: "Set the display order to the given complete id list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(cmd, args[0])
			if err != nil {
				return printResult[any](cmd.OutOrStdout(), nil, err)
			}
			items, err := c.Reorder(cmd.Context(), &contentSvc.ReorderRequest{IDs: args[1:], ETag: etag})
			return printResult(cmd.OutOrStdout(), items, err)
		},
	}
	cmd.Flags().StringVar(&etag, "etag", "", "fail with a conflict unless the collection still has this ETag")
	return cmd
}

func (a *app) contentRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <collection> <id>",
		Short: "Remove an item and close the gap",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(cmd, args[0])
			if err != nil {
				return printResult[any](cmd.OutOrStdout(), nil, err)
			}
			items, err := c.Remove(cmd.Context(), args[1])
			return printResult(cmd.OutOrStdout(), items, err)
		},
	}
}

func (a *app) contentRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <collection> <id>",
		Short: "Restore a soft-removed item at the end of the collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(cmd, args[0])
			if err != nil {
				return printResult[any](cmd.OutOrStdout(), nil, err)
			}
			items, err := c.Restore(cmd.Context(), args[1])
			return printResult(cmd.OutOrStdout(), items, err)
		},
	}
}
