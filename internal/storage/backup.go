package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BackupManager handles catalog database backup operations. Backups are
// full snapshots taken before destructive operations such as bulk imports.
type BackupManager struct {
	db         *sql.DB
	dbPath     string
	backupsDir string
}

// BackupMetadata is the sidecar record stored next to each backup file.
type BackupMetadata struct {
	CreatedAt     time.Time      `json:"created_at"`
	RowCounts     map[string]int `json:"row_counts"`
	ID            string         `json:"id"`
	Description   string         `json:"description"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
	IsAuto        bool           `json:"is_auto"`
}

// BackupInfo represents information about a backup for listing.
type BackupInfo struct {
	ID            string
	CreatedAt     time.Time
	Description   string
	FileSize      int64
	Wines         int
	ImportRuns    int
	SchemaVersion int
	IsAuto        bool
}

// Common errors.
var (
	ErrBackupNotFound  = errors.New("backup not found")
	ErrBackupCorrupted = errors.New("backup integrity check failed")
	ErrDiskSpaceLow    = errors.New("insufficient disk space for backup")
	ErrBackupExists    = errors.New("backup already exists")
)

// NewBackupManager creates a backup manager writing next to the database file.
func NewBackupManager(db *sql.DB, dbPath string) (*BackupManager, error) {
	backupsDir := filepath.Join(filepath.Dir(dbPath), "backups")

	if err := os.MkdirAll(backupsDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	return &BackupManager{
		db:         db,
		dbPath:     dbPath,
		backupsDir: backupsDir,
	}, nil
}

// Create creates a new backup with the given tag and description.
func (bm *BackupManager) Create(ctx context.Context, tag, description string) (*BackupInfo, error) {
	return bm.create(ctx, tag, description, false)
}

func (bm *BackupManager) create(ctx context.Context, tag, description string, auto bool) (*BackupInfo, error) {
	// Generate a backup ID if not provided
	if tag == "" {
		tag = fmt.Sprintf("backup-%s", time.Now().Format("2006-01-02-1504"))
	}

	// Validate tag (no path traversal)
	if strings.Contains(tag, "/") || strings.Contains(tag, "\\") || strings.Contains(tag, "..") {
		return nil, errors.New("invalid backup tag: cannot contain path separators")
	}

	backupPath := filepath.Join(bm.backupsDir, tag+".db")
	if _, err := os.Stat(backupPath); err == nil {
		return nil, ErrBackupExists
	}

	var schemaVersion int
	if err := bm.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&schemaVersion); err != nil {
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}

	rowCounts := bm.collectRowCounts(ctx)

	// Check disk space (rough estimate: current DB size * 1.1)
	dbInfo, err := os.Stat(bm.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}
	requiredSpace := int64(float64(dbInfo.Size()) * 1.1)
	if !bm.hasEnoughDiskSpace(requiredSpace) {
		return nil, ErrDiskSpaceLow
	}

	if backupErr := bm.backupDatabase(ctx, backupPath); backupErr != nil {
		return nil, fmt.Errorf("failed to backup database: %w", backupErr)
	}

	backupInfo, err := os.Stat(backupPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	metadata := BackupMetadata{
		ID:            tag,
		CreatedAt:     time.Now(),
		Description:   description,
		FileSize:      backupInfo.Size(),
		RowCounts:     rowCounts,
		SchemaVersion: schemaVersion,
		IsAuto:        auto,
	}

	metadataPath := filepath.Join(bm.backupsDir, tag+".meta.json")
	if err := bm.saveMetadata(metadataPath, metadata); err != nil {
		// Clean up the backup file on metadata save failure
		if rmErr := os.Remove(backupPath); rmErr != nil {
			slog.Error("failed to remove backup file after metadata save failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	return &BackupInfo{
		ID:            metadata.ID,
		CreatedAt:     metadata.CreatedAt,
		Description:   metadata.Description,
		FileSize:      metadata.FileSize,
		Wines:         rowCounts["wines"],
		ImportRuns:    rowCounts["import_runs"],
		SchemaVersion: metadata.SchemaVersion,
		IsAuto:        metadata.IsAuto,
	}, nil
}

// List returns all backups, newest first.
func (bm *BackupManager) List(_ context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(bm.backupsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backups directory: %w", err)
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}

		metadataPath := filepath.Join(bm.backupsDir, entry.Name())
		metadata, err := bm.loadMetadata(metadataPath)
		if err != nil {
			// Skip corrupted metadata files
			continue
		}

		backups = append(backups, BackupInfo{
			ID:            metadata.ID,
			CreatedAt:     metadata.CreatedAt,
			Description:   metadata.Description,
			FileSize:      metadata.FileSize,
			Wines:         metadata.RowCounts["wines"],
			ImportRuns:    metadata.RowCounts["import_runs"],
			SchemaVersion: metadata.SchemaVersion,
			IsAuto:        metadata.IsAuto,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Restore replaces the live database with a backup. It closes the live
// database handle itself; the storage must be reopened afterwards.
func (bm *BackupManager) Restore(_ context.Context, backupID string) error {
	if strings.Contains(backupID, "/") || strings.Contains(backupID, "\\") || strings.Contains(backupID, "..") {
		return errors.New("invalid backup ID: cannot contain path separators")
	}

	backupPath := filepath.Join(bm.backupsDir, backupID+".db")
	metadataPath := filepath.Join(bm.backupsDir, backupID+".meta.json")

	if _, err := os.Stat(backupPath); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupNotFound
		}
		return fmt.Errorf("failed to access backup: %w", err)
	}

	if _, err := bm.loadMetadata(metadataPath); err != nil {
		return fmt.Errorf("failed to load backup metadata: %w", err)
	}

	if err := bm.verifyBackupIntegrity(backupPath); err != nil {
		return ErrBackupCorrupted
	}

	if err := bm.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// Keep the current database around until the restore has succeeded
	safetyPath := bm.dbPath + ".restore-backup"
	if err := bm.copyFile(bm.dbPath, safetyPath); err != nil {
		return fmt.Errorf("failed to preserve current database: %w", err)
	}

	if err := bm.copyFile(backupPath, bm.dbPath); err != nil {
		if restoreErr := bm.copyFile(safetyPath, bm.dbPath); restoreErr != nil {
			slog.Error("failed to roll back after restore failure", "error", restoreErr)
		}
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	if err := os.Remove(safetyPath); err != nil {
		slog.Error("failed to remove safety copy", "error", err)
	}

	return nil
}

// Delete removes a backup and its metadata.
func (bm *BackupManager) Delete(_ context.Context, backupID string) error {
	if strings.Contains(backupID, "/") || strings.Contains(backupID, "\\") || strings.Contains(backupID, "..") {
		return errors.New("invalid backup ID: cannot contain path separators")
	}

	backupPath := filepath.Join(bm.backupsDir, backupID+".db")
	metadataPath := filepath.Join(bm.backupsDir, backupID+".meta.json")

	if _, err := os.Stat(backupPath); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupNotFound
		}
		return fmt.Errorf("failed to access backup: %w", err)
	}

	if err := os.Remove(backupPath); err != nil {
		return fmt.Errorf("failed to remove backup file: %w", err)
	}

	if err := os.Remove(metadataPath); err != nil {
		// Non-fatal: metadata might not exist
		slog.Debug("failed to remove metadata file", "error", err, "path", metadataPath)
	}

	return nil
}

// GetBackupInfo retrieves information about a specific backup.
func (bm *BackupManager) GetBackupInfo(_ context.Context, backupID string) (*BackupInfo, error) {
	metadataPath := filepath.Join(bm.backupsDir, backupID+".meta.json")

	metadata, err := bm.loadMetadata(metadataPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBackupNotFound
		}
		return nil, fmt.Errorf("failed to load backup metadata: %w", err)
	}

	return &BackupInfo{
		ID:            metadata.ID,
		CreatedAt:     metadata.CreatedAt,
		Description:   metadata.Description,
		FileSize:      metadata.FileSize,
		Wines:         metadata.RowCounts["wines"],
		ImportRuns:    metadata.RowCounts["import_runs"],
		SchemaVersion: metadata.SchemaVersion,
		IsAuto:        metadata.IsAuto,
	}, nil
}

// AutoBackup creates an automatic backup ahead of the named operation and
// prunes old automatic backups.
func (bm *BackupManager) AutoBackup(ctx context.Context, operation string) error {
	tag := fmt.Sprintf("auto-%s-%s", operation, time.Now().Format("2006-01-02-1504"))
	description := fmt.Sprintf("Automatic backup before %s", operation)

	if _, err := bm.create(ctx, tag, description, true); err != nil {
		return fmt.Errorf("failed to create auto-backup: %w", err)
	}

	if err := bm.cleanupOldAutoBackups(ctx); err != nil {
		// Non-fatal: log but continue
		slog.Warn("failed to clean up old auto-backups", "error", err)
	}

	return nil
}

func (bm *BackupManager) cleanupOldAutoBackups(ctx context.Context) error {
	backups, err := bm.List(ctx)
	if err != nil {
		return err
	}

	// Keep only the 5 most recent auto-backups
	const maxAutoBackups = 5
	autoCount := 0

	for _, b := range backups {
		if !b.IsAuto {
			continue
		}
		autoCount++
		if autoCount > maxAutoBackups {
			if err := bm.Delete(ctx, b.ID); err != nil {
				slog.Debug("failed to delete old auto-backup during cleanup", "error", err, "backup", b.ID)
			}
		}
	}

	return nil
}

// Helper methods

func (bm *BackupManager) collectRowCounts(ctx context.Context) map[string]int {
	counts := make(map[string]int)

	// Explicit per-table queries; a missing table just counts as zero
	tableQueries := map[string]string{
		"wines":       "SELECT COUNT(*) FROM wines",
		"import_runs": "SELECT COUNT(*) FROM import_runs",
	}

	for table, query := range tableQueries {
		var count int
		if err := bm.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			counts[table] = 0
			continue
		}
		counts[table] = count
	}

	return counts
}

func (bm *BackupManager) hasEnoughDiskSpace(required int64) bool {
	// Check if we can create a file of the required size
	testFile := filepath.Join(bm.backupsDir, ".space-test")
	if !strings.HasPrefix(filepath.Clean(testFile), filepath.Clean(bm.backupsDir)) {
		return false
	}
	// #nosec G304 - testFile path is validated above
	f, err := os.Create(testFile)
	if err != nil {
		return false
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("failed to close test file", "error", err)
		}
		if err := os.Remove(testFile); err != nil {
			slog.Error("failed to remove test file", "error", err)
		}
	}()

	if err := f.Truncate(required); err != nil {
		return false
	}

	return true
}

func (bm *BackupManager) backupDatabase(ctx context.Context, destPath string) error {
	// Flush the WAL so the snapshot contains every committed write
	if _, err := bm.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint WAL: %w", err)
	}

	// Validate destPath to prevent SQL injection
	if strings.Contains(destPath, "'") || strings.Contains(destPath, "\"") || strings.Contains(destPath, ";") {
		return fmt.Errorf("invalid destination path: contains forbidden characters")
	}
	if !filepath.IsAbs(destPath) || strings.Contains(destPath, "..") {
		return fmt.Errorf("invalid destination path")
	}

	// VACUUM INTO gives an atomic, compacted copy (SQLite 3.27.0+)
	// #nosec G201 - destPath is validated above to prevent SQL injection
	query := fmt.Sprintf("VACUUM INTO '%s'", destPath)
	if _, err := bm.db.ExecContext(ctx, query); err != nil {
		// Fallback to file copy if VACUUM INTO not supported
		return bm.copyFile(bm.dbPath, destPath)
	}

	return nil
}

func (bm *BackupManager) copyFile(src, dst string) error {
	// Validate paths to prevent directory traversal
	cleanSrc := filepath.Clean(src)
	cleanDst := filepath.Clean(dst)
	if cleanSrc != src || cleanDst != dst || strings.Contains(src, "..") || strings.Contains(dst, "..") {
		return fmt.Errorf("invalid file paths")
	}

	// Write to a temporary file, then rename into place
	tmpDst := dst + ".tmp"

	// #nosec G304 - cleanSrc is validated above
	source, err := os.Open(cleanSrc)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := source.Close(); closeErr != nil {
			slog.Error("failed to close source file", "error", closeErr)
		}
	}()

	// #nosec G304 - tmpDst derives from the validated destination
	destination, err := os.Create(tmpDst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destination, source); err != nil {
		if closeErr := destination.Close(); closeErr != nil {
			slog.Error("failed to close destination file after copy error", "error", closeErr)
		}
		if rmErr := os.Remove(tmpDst); rmErr != nil {
			slog.Error("failed to remove temporary file after copy error", "error", rmErr)
		}
		return err
	}

	if err := destination.Close(); err != nil {
		if removeErr := os.Remove(tmpDst); removeErr != nil {
			slog.Error("failed to remove temporary file after close error", "error", removeErr)
		}
		return err
	}

	return os.Rename(tmpDst, dst)
}

func (bm *BackupManager) saveMetadata(path string, metadata BackupMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

func (bm *BackupManager) loadMetadata(path string) (*BackupMetadata, error) {
	// Validate path to prevent directory traversal
	if !filepath.IsAbs(path) || strings.Contains(path, "..") {
		return nil, fmt.Errorf("invalid metadata path")
	}
	// #nosec G304 - path is validated above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var metadata BackupMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, err
	}

	return &metadata, nil
}

func (bm *BackupManager) verifyBackupIntegrity(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}

	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	return nil
}
