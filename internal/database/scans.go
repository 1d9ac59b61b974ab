// Platescan - Food Scan Nutrition Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platescan

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/platescan/internal/logging"
	"github.com/tomtom215/platescan/internal/metrics"
	"github.com/tomtom215/platescan/internal/models"
)

// maxInsertAttempts bounds retries of a scan insert on transaction conflict.
const maxInsertAttempts = 3

const selectScanColumns = `
	SELECT s.id, s.scanned_at, s.image_digest,
	       i.position, i.name, i.confidence, i.has_nutrients,
	       i.calories, i.fats, i.carbohydrates, i.proteins, i.vitamins, i.minerals
	FROM scans s
	LEFT JOIN scan_food_items i ON i.scan_id = s.id`

// InsertScan stores a scan and its food items in one transaction.
func (db *DB) InsertScan(ctx context.Context, scan *models.Scan) error {
	if scan == nil || scan.ID == "" {
		return errors.New("scan with id is required")
	}

	start := time.Now()
	var err error
	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		err = db.insertScanTx(ctx, scan)
		if err == nil || !isTransactionConflict(err) {
			break
		}
		logging.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Str("scan_id", scan.ID).Msg("Scan insert conflicted, retrying")
	}
	db.record("insert", "scans", start, err)
	if err != nil {
		return fmt.Errorf("insert scan %s: %w", scan.ID, err)
	}
	return nil
}

func (db *DB) insertScanTx(ctx context.Context, scan *models.Scan) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logging.Ctx(ctx).Warn().Err(rbErr).Msg("Rollback failed")
			}
		}
	}()

	var digest any
	if scan.ImageDigest != "" {
		digest = scan.ImageDigest
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO scans (id, scanned_at, image_digest) VALUES (?, ?, ?)`,
		scan.ID, scan.Date.UTC(), digest,
	); err != nil {
		return err
	}

	for pos, item := range scan.FoodItems {
		args, argErr := foodItemArgs(scan.ID, pos, &item)
		if argErr != nil {
			return argErr
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO scan_food_items
				(scan_id, position, name, confidence, has_nutrients,
				 calories, fats, carbohydrates, proteins, vitamins, minerals)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			args...,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func foodItemArgs(scanID string, pos int, item *models.FoodItem) ([]any, error) {
	args := []any{scanID, pos, item.Name, item.Confidence, item.Nutrients != nil}
	if item.Nutrients == nil {
		return append(args, nil, nil, nil, nil, nil, nil), nil
	}

	n := item.Nutrients
	vitamins, err := json.Marshal(nonNil(n.Vitamins))
	if err != nil {
		return nil, fmt.Errorf("encode vitamins: %w", err)
	}
	minerals, err := json.Marshal(nonNil(n.Minerals))
	if err != nil {
		return nil, fmt.Errorf("encode minerals: %w", err)
	}
	return append(args, n.Calories, n.Fats, n.Carbohydrates, n.Proteins, string(vitamins), string(minerals)), nil
}

// ScansBetween returns scans with start <= date < end, ordered by date then
// id. Items keep their stored order.
func (db *DB) ScansBetween(ctx context.Context, start, end time.Time) ([]models.Scan, error) {
	began := time.Now()
	scans, err := db.queryScans(ctx,
		selectScanColumns+`
		WHERE s.scanned_at >= ? AND s.scanned_at < ?
		ORDER BY s.scanned_at, s.id, i.position`,
		start.UTC(), end.UTC(),
	)
	db.record("select", "scans", began, err)
	if err != nil {
		return nil, fmt.Errorf("query scans between %s and %s: %w", start.Format(time.RFC3339), end.Format(time.RFC3339), err)
	}
	return scans, nil
}

// GetScan returns one scan or ErrScanNotFound.
func (db *DB) GetScan(ctx context.Context, id string) (*models.Scan, error) {
	began := time.Now()
	scans, err := db.queryScans(ctx,
		selectScanColumns+`
		WHERE s.id = ?
		ORDER BY i.position`,
		id,
	)
	db.record("select", "scans", began, err)
	if err != nil {
		return nil, fmt.Errorf("get scan %s: %w", id, err)
	}
	if len(scans) == 0 {
		return nil, ErrScanNotFound
	}
	return &scans[0], nil
}

// CountScans returns the total number of stored scans.
func (db *DB) CountScans(ctx context.Context) (int, error) {
	began := time.Now()
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM scans`).Scan(&n)
	db.record("count", "scans", began, err)
	if err != nil {
		return 0, fmt.Errorf("count scans: %w", err)
	}
	return n, nil
}

// queryScans folds joined scan/item rows into scans. Rows must be grouped
// by scan id.
func (db *DB) queryScans(ctx context.Context, query string, args ...any) ([]models.Scan, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(rows, "rows")

	scans := []models.Scan{}
	for rows.Next() {
		var (
			id, digest                     sql.NullString
			scannedAt                      time.Time
			position                       sql.NullInt64
			name                           sql.NullString
			confidence                     sql.NullFloat64
			hasNutrients                   sql.NullBool
			calories, fats, carbs, protein sql.NullFloat64
			vitamins, minerals             sql.NullString
		)
		if err := rows.Scan(&id, &scannedAt, &digest,
			&position, &name, &confidence, &hasNutrients,
			&calories, &fats, &carbs, &protein, &vitamins, &minerals,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		if len(scans) == 0 || scans[len(scans)-1].ID != id.String {
			scans = append(scans, models.Scan{
				ID:          id.String,
				Date:        scannedAt.UTC(),
				ImageDigest: digest.String,
				FoodItems:   []models.FoodItem{},
			})
		}
		if !position.Valid {
			continue // scan without items
		}

		item := models.FoodItem{Name: name.String, Confidence: confidence.Float64}
		if hasNutrients.Bool {
			n := &models.Nutrients{
				Calories:      calories.Float64,
				Fats:          fats.Float64,
				Carbohydrates: carbs.Float64,
				Proteins:      protein.Float64,
			}
			if n.Vitamins, err = decodeNames(vitamins); err != nil {
				return nil, fmt.Errorf("decode vitamins of scan %s: %w", id.String, err)
			}
			if n.Minerals, err = decodeNames(minerals); err != nil {
				return nil, fmt.Errorf("decode minerals of scan %s: %w", id.String, err)
			}
			item.Nutrients = n
		}

		last := &scans[len(scans)-1]
		last.FoodItems = append(last.FoodItems, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return scans, nil
}

func decodeNames(s sql.NullString) ([]string, error) {
	names := []string{}
	if !s.Valid || s.String == "" {
		return names, nil
	}
	if err := json.Unmarshal([]byte(s.String), &names); err != nil {
		return nil, err
	}
	return nonNil(names), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (db *DB) record(op, table string, start time.Time, err error) {
	var errType string
	if err != nil {
		errType = errorType(err)
	}
	metrics.RecordDBQuery(op, table, time.Since(start), errType)
}
