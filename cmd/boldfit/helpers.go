package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"

	"github.com/mwiersema/boldfit/internal/glm"
	"github.com/mwiersema/boldfit/internal/storage"
)

// openStorage opens and migrates the results store at the configured path.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".config", "boldfit", "boldfit.db")
	}
	return storage.NewSQLiteStorage(dbPath)
}

// scanParams reads the acquisition constants from viper. They are external
// inputs, never derived from the data.
func scanParams() (glm.ScanParams, error) {
	params := glm.ScanParams{
		TR:      viper.GetFloat64("scan.tr"),
		Volumes: viper.GetInt("scan.volumes"),
	}
	if err := params.Validate(); err != nil {
		return glm.ScanParams{}, fmt.Errorf("scan parameters: %w (set --tr and --volumes or scan.tr/scan.volumes in config)", err)
	}
	return params, nil
}

// formatBeta renders a coefficient for table output.
func formatBeta(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
