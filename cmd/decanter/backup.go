package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cellarist/decanter/internal/cli"
	"github.com/cellarist/decanter/internal/storage"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage database backups",
		Long: `Create, list, restore, and delete database backups.

Backups let you save the current state of the catalog before large
imports or risky changes, and roll back to a previous state if needed.`,
		Example: `  # Create a backup before importing a new catalog release
  decanter backup create --tag "pre-2026-lwin"

  # List all backups
  decanter backup list

  # Restore from a backup
  decanter backup restore pre-2026-lwin

  # Delete an old backup
  decanter backup delete old-backup`,
	}

	cmd.AddCommand(createBackupCmd())
	cmd.AddCommand(listBackupsCmd())
	cmd.AddCommand(restoreBackupCmd())
	cmd.AddCommand(deleteBackupCmd())

	return cmd
}

func createBackupCmd() *cobra.Command {
	var tag string
	var description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new backup",
		Long:  `Create a snapshot of the current catalog database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// Initialize storage with auto-migration
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			// Create backup manager
			sqliteStore, ok := store.(*storage.SQLiteStorage)
			if !ok {
				return fmt.Errorf("storage is not SQLite")
			}
			manager, err := sqliteStore.NewBackupManager()
			if err != nil {
				return fmt.Errorf("failed to create backup manager: %w", err)
			}

			// Create backup
			info, err := manager.Create(ctx, tag, description)
			if err != nil {
				return fmt.Errorf("failed to create backup: %w", err)
			}

			// Format output
			fmt.Printf("%s Created backup %s (%s)\n",
				cli.SuccessStyle.Render("✓"),
				cli.InfoStyle.Render(info.ID),
				formatFileSize(info.FileSize))

			if info.Description != "" {
				fmt.Printf("  Description: %s\n", info.Description)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Backup tag/name (auto-generated if not provided)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description of the backup")

	return cmd
}

func listBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all backups",
		Long:  `Display all available backups with their metadata.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// Initialize storage with auto-migration
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			// Create backup manager
			sqliteStore, ok := store.(*storage.SQLiteStorage)
			if !ok {
				return fmt.Errorf("storage is not SQLite")
			}
			manager, err := sqliteStore.NewBackupManager()
			if err != nil {
				return fmt.Errorf("failed to create backup manager: %w", err)
			}

			// List backups
			backups, err := manager.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list backups: %w", err)
			}

			if len(backups) == 0 {
				fmt.Println(cli.SubtitleStyle.Render("No backups found."))
				return nil
			}

			// Create table
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

			// Header
			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
			fmt.Fprintln(w, strings.Join([]string{
				headerStyle.Render("NAME"),
				headerStyle.Render("CREATED"),
				headerStyle.Render("SIZE"),
				headerStyle.Render("WINES"),
				headerStyle.Render("IMPORTS"),
				headerStyle.Render("TYPE"),
			}, "\t"))

			// Rows
			for _, backup := range backups {
				typeLabel := "manual"
				if backup.IsAuto {
					typeLabel = "auto"
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					cli.InfoStyle.Render(backup.ID),
					formatRelativeTime(backup.CreatedAt),
					formatFileSize(backup.FileSize),
					backup.Wines,
					backup.ImportRuns,
					cli.SubtitleStyle.Render(typeLabel),
				)
			}

			w.Flush()

			return nil
		},
	}
}

func restoreBackupCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <backup-id>",
		Short: "Restore database from a backup",
		Long:  `Replace the current catalog database with a backup.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			backupID := args[0]

			// Initialize storage with auto-migration
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}

			// Create backup manager
			sqliteStore, ok := store.(*storage.SQLiteStorage)
			if !ok {
				_ = store.Close()
				return fmt.Errorf("storage is not SQLite")
			}
			manager, err := sqliteStore.NewBackupManager()
			if err != nil {
				_ = store.Close()
				return fmt.Errorf("failed to create backup manager: %w", err)
			}

			// Get backup info
			info, err := manager.GetBackupInfo(ctx, backupID)
			if err != nil {
				_ = store.Close()
				return fmt.Errorf("failed to get backup info: %w", err)
			}

			// Confirm unless force flag is set
			if !force {
				fmt.Printf("%s This will replace your current database with backup %s.\n",
					cli.WarningStyle.Render("⚠️"),
					cli.InfoStyle.Render(backupID))
				fmt.Printf("  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
				if info.Description != "" {
					fmt.Printf("  Description: %s\n", info.Description)
				}
				fmt.Printf("\nContinue? (y/N) ")

				var response string
				fmt.Scanln(&response)
				if !strings.HasPrefix(strings.ToLower(response), "y") {
					fmt.Println(cli.SubtitleStyle.Render("Restore cancelled."))
					_ = store.Close()
					return nil
				}
			}

			// Restore closes the live handle itself before swapping files
			if err := manager.Restore(ctx, backupID); err != nil {
				return fmt.Errorf("failed to restore backup: %w", err)
			}

			fmt.Printf("%s Restored from backup %s\n",
				cli.SuccessStyle.Render("✓"),
				cli.InfoStyle.Render(backupID))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func deleteBackupCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <backup-id>",
		Short: "Delete a backup",
		Long:  `Permanently remove a backup.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			backupID := args[0]

			// Initialize storage with auto-migration
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			// Create backup manager
			sqliteStore, ok := store.(*storage.SQLiteStorage)
			if !ok {
				return fmt.Errorf("storage is not SQLite")
			}
			manager, err := sqliteStore.NewBackupManager()
			if err != nil {
				return fmt.Errorf("failed to create backup manager: %w", err)
			}

			// Get backup info
			info, err := manager.GetBackupInfo(ctx, backupID)
			if err != nil {
				return fmt.Errorf("failed to get backup info: %w", err)
			}

			// Confirm unless force flag is set
			if !force {
				fmt.Printf("%s This will permanently delete backup %s.\n",
					cli.WarningStyle.Render("⚠️"),
					cli.InfoStyle.Render(backupID))
				fmt.Printf("  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
				fmt.Printf("  Size: %s\n", formatFileSize(info.FileSize))
				fmt.Printf("\nContinue? (y/N) ")

				var response string
				fmt.Scanln(&response)
				if !strings.HasPrefix(strings.ToLower(response), "y") {
					fmt.Println(cli.SubtitleStyle.Render("Deletion cancelled."))
					return nil
				}
			}

			// Delete backup
			if err := manager.Delete(ctx, backupID); err != nil {
				return fmt.Errorf("failed to delete backup: %w", err)
			}

			fmt.Printf("%s Deleted backup %s\n",
				cli.SuccessStyle.Render("✓"),
				cli.InfoStyle.Render(backupID))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

// Helper functions

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatRelativeTime(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		minutes := int(duration.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	} else if duration < 24*time.Hour {
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	} else if duration < 7*24*time.Hour {
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	} else {
		return t.Format("2006-01-02 15:04")
	}
}
