package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rupeeledger/rupeeledger/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List, add, and delete spending and income categories.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintln(w, "ID\tName\tType\tDefault")
			for _, category := range categories {
				def := ""
				if category.IsDefault {
					def = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					category.ID, category.Name, category.Type, def)
			}
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		categoryType string
		color        string
		icon         string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			category := &model.Category{
				ID:    uuid.NewString(),
				Name:  args[0],
				Type:  model.CategoryType(categoryType),
				Color: color,
				Icon:  icon,
			}
			if err := store.CreateCategory(ctx, category); err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Printf("Created category %q (%s)\n", category.Name, category.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryType, "type", "EXPENSE", "category type (EXPENSE, INCOME)")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a custom category",
		Long:  `Delete a custom category. Default categories cannot be deleted; entries referencing a deleted category show as "Uncategorized".`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteCategory(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}
			fmt.Println("Category deleted.")
			return nil
		},
	}
}
