package db

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"homeval/ml"
	"homeval/property"
)

var database *sql.DB

// InitDB initializes the SQLite database used for the prediction history.
func InitDB(path string) error {
	// The sqlite driver will not create missing parent directories.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var err error
	database, err = sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        property_type TEXT NOT NULL,
        bedrooms INTEGER NOT NULL,
        kitchen_equipped INTEGER NOT NULL,
        state TEXT NOT NULL,
        facades INTEGER NOT NULL,
        swimming_pool INTEGER NOT NULL,
        region TEXT NOT NULL,
        municipality TEXT NOT NULL,
        living_area INTEGER NOT NULL,
        terrace_area INTEGER NOT NULL,
        garden_area INTEGER NOT NULL,
        price REAL NOT NULL,
        price_low REAL NOT NULL,
        price_high REAL NOT NULL,
        formatted_price TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_created_at
        ON predictions(created_at DESC);
    `

	_, err = database.Exec(query)
	return err
}

// Close releases the database handle.
func Close() error {
	if database == nil {
		return nil
	}
	err := database.Close()
	database = nil
	return err
}

// HistoryEntry is one stored prediction.
type HistoryEntry struct {
	ID             int64           `json:"id"`
	Record         property.Record `json:"record"`
	Price          float64         `json:"price"`
	PriceLow       float64         `json:"price_low"`
	PriceHigh      float64         `json:"price_high"`
	FormattedPrice string          `json:"formatted_price"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SavePrediction appends one completed prediction to the history.
func SavePrediction(record property.Record, prediction ml.Prediction, formattedPrice string) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	_, err := database.Exec(`
        INSERT INTO predictions (
            property_type, bedrooms, kitchen_equipped, state, facades, swimming_pool,
            region, municipality, living_area, terrace_area, garden_area,
            price, price_low, price_high, formatted_price, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.PropertyType,
		record.Bedrooms,
		boolToInt(record.KitchenEquipped),
		record.State,
		record.Facades,
		boolToInt(record.SwimmingPool),
		record.Region,
		record.Municipality,
		record.LivingArea,
		record.TerraceArea,
		record.GardenArea,
		prediction.Price,
		prediction.Low,
		prediction.High,
		formattedPrice,
		time.Now().UTC(),
	)
	return err
}

// QueryRecent returns the newest predictions, newest first.
func QueryRecent(limit int) ([]HistoryEntry, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := database.Query(`
        SELECT id, property_type, bedrooms, kitchen_equipped, state, facades, swimming_pool,
               region, municipality, living_area, terrace_area, garden_area,
               price, price_low, price_high, formatted_price, created_at
        FROM predictions
        ORDER BY created_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var entry HistoryEntry
		var kitchen, pool int
		err := rows.Scan(
			&entry.ID,
			&entry.Record.PropertyType,
			&entry.Record.Bedrooms,
			&kitchen,
			&entry.Record.State,
			&entry.Record.Facades,
			&pool,
			&entry.Record.Region,
			&entry.Record.Municipality,
			&entry.Record.LivingArea,
			&entry.Record.TerraceArea,
			&entry.Record.GardenArea,
			&entry.Price,
			&entry.PriceLow,
			&entry.PriceHigh,
			&entry.FormattedPrice,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entry.Record.KitchenEquipped = kitchen != 0
		entry.Record.SwimmingPool = pool != 0
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
