package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/jackc/pgx/v5"
)

// EnsureSchema creates the PostGIS extension and the places table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis;`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			geonameid BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			asciiname TEXT NOT NULL,
			alternatenames TEXT NOT NULL,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			feature_class TEXT NOT NULL,
			feature_code TEXT NOT NULL,
			country_code TEXT NOT NULL,
			cc2 TEXT NOT NULL,
			admin1_code TEXT NOT NULL,
			admin2_code TEXT NOT NULL,
			admin3_code TEXT NOT NULL,
			admin4_code TEXT NOT NULL,
			population BIGINT NOT NULL,
			elevation TEXT NOT NULL,
			dem BIGINT NOT NULL,
			timezone TEXT NOT NULL,
			modification_date TEXT NOT NULL,
			geom geometry(Point, 4326)
		);`, r.ident()),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (country_code, feature_code);`,
			pgx.Identifier{r.table + "_country_feature_idx"}.Sanitize(), r.ident()),
	}

	for _, stmt := range stmts {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	r.log.DebugContext(ctx, "Database schema is ready", "table", r.table)
	return nil
}

// ReplacePlaces deletes the rows selected by q and inserts places in a single
// transaction, so publishing the same query twice does not duplicate rows.
// It returns the number of inserted places.
func (r *Repository) ReplacePlaces(ctx context.Context, q models.Query, places []models.Place) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = r.replace(ctx, tx, q, places); err != nil {
		if errRollback := tx.Rollback(ctx); errRollback != nil {
			r.log.WarnContext(ctx, "Failed to rollback transaction", "error", errRollback)
		}
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.log.InfoContext(ctx, "Places published", "table", r.table, "country", q.Country,
		"feature_code", q.FeatureOrAll(), "count", len(places))
	return len(places), nil
}

func (r *Repository) replace(ctx context.Context, tx pgx.Tx, q models.Query, places []models.Place) error {
	deleted, err := tx.Exec(ctx, fmt.Sprintf(deleteQuery, r.ident()), q.Country, q.Feature)
	if err != nil {
		return fmt.Errorf("failed to delete previous places: %w", err)
	}
	r.log.DebugContext(ctx, "Previous places removed", "count", deleted.RowsAffected())

	insert := fmt.Sprintf(insertQuery, r.ident())
	for i := range places {
		if _, err = tx.Exec(ctx, insert, placeArgs(&places[i])...); err != nil {
			return fmt.Errorf("failed to insert place %d: %w", places[i].GeonameID, err)
		}
	}
	return nil
}

func (r *Repository) ident() string {
	return pgx.Identifier{r.table}.Sanitize()
}

const deleteQuery = `DELETE FROM %s WHERE country_code = $1 AND ($2 = '' OR feature_code = $2);`

const insertQuery = `
	INSERT INTO %s (
		geonameid, name, asciiname, alternatenames, latitude, longitude,
		feature_class, feature_code, country_code, cc2,
		admin1_code, admin2_code, admin3_code, admin4_code,
		population, elevation, dem, timezone, modification_date, geom
	)
	VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		ST_SetSRID(ST_MakePoint($6, $5), 4326)
	)
	ON CONFLICT (geonameid) DO UPDATE SET
		name = EXCLUDED.name,
		asciiname = EXCLUDED.asciiname,
		alternatenames = EXCLUDED.alternatenames,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		feature_class = EXCLUDED.feature_class,
		feature_code = EXCLUDED.feature_code,
		country_code = EXCLUDED.country_code,
		cc2 = EXCLUDED.cc2,
		admin1_code = EXCLUDED.admin1_code,
		admin2_code = EXCLUDED.admin2_code,
		admin3_code = EXCLUDED.admin3_code,
		admin4_code = EXCLUDED.admin4_code,
		population = EXCLUDED.population,
		elevation = EXCLUDED.elevation,
		dem = EXCLUDED.dem,
		timezone = EXCLUDED.timezone,
		modification_date = EXCLUDED.modification_date,
		geom = EXCLUDED.geom;
`

// placeArgs returns the insert arguments of p. Missing coordinates become NULL,
// which leaves geom NULL as well.
func placeArgs(p *models.Place) []any {
	return []any{
		p.GeonameID, p.Name, p.ASCIIName, p.AlternateNames,
		nullable(p.Latitude), nullable(p.Longitude),
		p.FeatureClass, p.FeatureCode, p.CountryCode, p.CC2,
		p.Admin1Code, p.Admin2Code, p.Admin3Code, p.Admin4Code,
		p.Population, p.Elevation, p.DEM, p.Timezone, p.ModificationDate,
	}
}

func nullable(f float64) any {
	if math.IsNaN(f) {
		return nil
	}
	return f
}
