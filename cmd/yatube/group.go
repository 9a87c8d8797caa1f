package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"yatube/internal/database"
	"yatube/internal/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newGroupCmd - управление группами. На сайте группы не создаются.
func newGroupCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Управление группами",
	}

	cmd.AddCommand(newGroupCreateCmd(c))
	cmd.AddCommand(newGroupListCmd(c))
	cmd.AddCommand(newGroupDeleteCmd(c))

	return cmd
}

func newGroupCreateCmd(c *cli) *cobra.Command {
	var title, slug, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать группу",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			group, err := database.NewGroupService(db).CreateGroup(cmd.Context(), title, slug, description)
			if err != nil {
				return err
			}

			c.logger.Info("Group created",
				zap.Int("id", group.ID),
				zap.String("slug", group.Slug))
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", group.ID, group.Slug, group.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Название группы")
	cmd.Flags().StringVar(&slug, "slug", "", "Адрес группы в URL")
	cmd.Flags().StringVar(&description, "description", "", "Описание группы")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("slug")

	return cmd
}

func newGroupListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Показать все группы",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			groups, err := database.NewGroupService(db).GetAllGroups(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSLUG\tTITLE")
			for _, g := range groups {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
			}
			return tw.Flush()
		},
	}
}

func newGroupDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|slug>",
		Short: "Удалить группу. Посты группы остаются без группы.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			groups := database.NewGroupService(db)

			group, err := findGroup(cmd, groups, args[0])
			if err != nil {
				return err
			}

			if err := groups.DeleteGroup(cmd.Context(), group.ID); err != nil {
				return err
			}

			c.logger.Info("Group deleted",
				zap.Int("id", group.ID),
				zap.String("slug", group.Slug))
			return nil
		},
	}
}

// findGroup ищет группу по числовому id, затем по slug
func findGroup(cmd *cobra.Command, groups *database.GroupService, ref string) (*models.Group, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		group, err := groups.GetGroup(cmd.Context(), id)
		if err == nil || !errors.Is(err, database.ErrGroupNotFound) {
			return group, err
		}
	}
	return groups.GetGroupBySlug(cmd.Context(), ref)
}
