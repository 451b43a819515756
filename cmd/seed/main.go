package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/logging"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"
)

var (
	configPath string
	dsn        string
)

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "seed loads foodgram reference data",
	Long:          "seed creates the schema and loads ingredient and tag reference data from CSV files.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := openDB()
		if err != nil {
			return err
		}
		logging.Info().Msg("schema is up to date")
		return nil
	},
}

var ingredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: "Load ingredients from a name,measurement_unit CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		rows, err := readIngredients(f)
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}

		inserted, err := repository.NewIngredientRepository(db).InsertMissing(cmd.Context(), rows)
		if err != nil {
			return err
		}
		logging.Info().Int("read", len(rows)).Int("inserted", inserted).Msg("ingredients loaded")
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Load tags from a name,color,slug CSV file (upsert by slug)",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		tags, err := readTags(f)
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}

		if err := repository.NewTagRepository(db).Upsert(cmd.Context(), tags); err != nil {
			return err
		}
		logging.Info().Int("tags", len(tags)).Msg("tags loaded")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default: $CONFIG_PATH or config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database DSN, overrides the config")

	ingredientsCmd.Flags().String("file", "data/ingredients.csv", "CSV file with name,measurement_unit rows")
	tagsCmd.Flags().String("file", "data/tags.csv", "CSV file with name,color,slug rows")

	rootCmd.AddCommand(migrateCmd, ingredientsCmd, tagsCmd)
}

func main() {
	logging.Init(logging.Config{Level: "info", Format: "console"})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logging.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dsn != "" {
		cfg.Database.DSN = dsn
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// readIngredients parses name,measurement_unit rows. Blank lines are skipped
// and a "name,measurement_unit" header is allowed.
func readIngredients(r io.Reader) ([]domain.Ingredient, error) {
	records, err := readCSV(r, 2, "name")
	if err != nil {
		return nil, err
	}

	out := make([]domain.Ingredient, 0, len(records))
	for i, rec := range records {
		name, unit := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if name == "" || unit == "" {
			return nil, fmt.Errorf("ingredients row %d: name and measurement unit are required", i+1)
		}
		if len([]rune(name)) > domain.MaxNameLength || len([]rune(unit)) > domain.MaxNameLength {
			return nil, fmt.Errorf("ingredients row %d: value longer than %d characters", i+1, domain.MaxNameLength)
		}
		out = append(out, domain.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return out, nil
}

type tagRow struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor"`
	Slug  string `json:"slug" validate:"required,max=200"`
}

// readTags parses name,color,slug rows with an optional header.
func readTags(r io.Reader) ([]domain.Tag, error) {
	records, err := readCSV(r, 3, "name")
	if err != nil {
		return nil, err
	}

	out := make([]domain.Tag, 0, len(records))
	for i, rec := range records {
		row := tagRow{
			Name:  strings.TrimSpace(rec[0]),
			Color: strings.ToUpper(strings.TrimSpace(rec[1])),
			Slug:  strings.TrimSpace(rec[2]),
		}
		if errs := validator.Validate(row); errs != nil {
			return nil, fmt.Errorf("tags row %d: %w", i+1, errs)
		}
		out = append(out, domain.Tag{Name: row.Name, Color: row.Color, Slug: row.Slug})
	}
	return out, nil
}

func readCSV(r io.Reader, fields int, header string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	cr.TrimLeadingSpace = true

	var out [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(out) == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), header) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
