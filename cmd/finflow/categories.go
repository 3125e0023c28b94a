package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/finflow/internal/cli"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/pages"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage income and expense categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var txnType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseType(txnType)
			if err != nil {
				return err
			}
			return withUser(cmd, func(ctx context.Context, a *app) error {
				container := pages.NewCategories(a.client.Categories, a.logger)
				defer container.Close()
				if _, err := container.Load(ctx); err != nil {
					return apiFailure("Failed to load categories", err)
				}

				categories := container.Items()
				if t != "" {
					categories = container.ByType(t)
				}
				if len(categories) == 0 {
					a.println(cli.InfoStyle.Render("No categories found. Use 'finflow categories add' to create one."))
					return nil
				}

				rows := make([][]string, 0, len(categories))
				for _, c := range categories {
					swatch := cli.SubtleStyle.Render("-")
					if c.Color != "" {
						swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("●")
					}
					rows = append(rows, []string{c.ID.String(), swatch + " " + c.Name, string(c.Type)})
				}
				return writeTable(a.out, []string{"ID", "Name", "Type"}, rows)
			})
		},
	}
	cmd.Flags().StringVarP(&txnType, "type", "t", "", "only income or expense")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	var payload model.CategoryPayload
	var txnType string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseType(txnType)
			if err != nil {
				return err
			}
			if t == "" {
				t = model.TypeExpense
			}
			payload.Name = args[0]
			payload.Type = t
			return withUser(cmd, func(ctx context.Context, a *app) error {
				created, err := a.client.Categories.Create(ctx, payload)
				if err != nil {
					return apiFailure("Failed to create category", err)
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("Created %s category %s (%s)", created.Type, created.Name, created.ID)))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&txnType, "type", "t", "expense", "income or expense")
	cmd.Flags().StringVar(&payload.Color, "color", "", "color as #rrggbb")
	cmd.Flags().StringVar(&payload.Icon, "icon", "", "icon name")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		name, txnType, color, icon string
	)

	cmd := &cobra.Command{
		Use:   "update <id-or-name>",
		Short: "Change a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, func(ctx context.Context, a *app) error {
				existing, err := findCategory(ctx, a, args[0])
				if err != nil {
					return err
				}
				payload := model.CategoryPayload{Name: existing.Name, Type: existing.Type, Color: existing.Color, Icon: existing.Icon}
				flags := cmd.Flags()
				if flags.Changed("name") {
					payload.Name = name
				}
				if flags.Changed("type") {
					if payload.Type, err = parseType(txnType); err != nil {
						return err
					}
				}
				if flags.Changed("color") {
					payload.Color = color
				}
				if flags.Changed("icon") {
					payload.Icon = icon
				}
				if _, err := a.client.Categories.Update(ctx, existing.ID, payload); err != nil {
					return apiFailure("Failed to update category", err)
				}
				a.println(cli.FormatSuccess("Updated category " + payload.Name))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&txnType, "type", "t", "", "income or expense")
	cmd.Flags().StringVar(&color, "color", "", "color as #rrggbb")
	cmd.Flags().StringVar(&icon, "icon", "", "icon name")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id-or-name>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, func(ctx context.Context, a *app) error {
				c, err := findCategory(ctx, a, args[0])
				if err != nil {
					return err
				}
				ok, err := a.confirm(ctx, yes, fmt.Sprintf("Delete category %q?", c.Name))
				if err != nil || !ok {
					return err
				}
				if err := a.client.Categories.Delete(ctx, c.ID); err != nil {
					return apiFailure("Failed to delete category", err)
				}
				a.println(cli.FormatSuccess("Deleted category " + c.Name))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func findCategory(ctx context.Context, a *app, ref string) (model.Category, error) {
	categories, err := a.client.Categories.List(ctx)
	if err != nil {
		return model.Category{}, apiFailure("Failed to load categories", err)
	}
	id, err := resolveCategory(categories, ref)
	if err != nil {
		return model.Category{}, err
	}
	c, _ := model.FindCategory(categories, id)
	return c, nil
}
