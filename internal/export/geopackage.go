package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	_ "modernc.org/sqlite" // Register driver
)

const (
	gpkgApplicationID = 0x47504B47 // "GPKG"
	gpkgUserVersion   = 10200      // GeoPackage 1.2
	wgs84SRSID        = 4326
)

const wgs84WKT = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,` +
	`AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],` +
	`UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AXIS["Latitude",NORTH],AXIS["Longitude",EAST],` +
	`AUTHORITY["EPSG","4326"]]`

// GeoPackageWriter writes a collection as a single point layer of a GeoPackage.
// An existing file at the target path is replaced.
type GeoPackageWriter struct {
	Layer string
}

func (w GeoPackageWriter) Write(ctx context.Context, path string, c *models.Collection) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove existing geopackage: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open geopackage: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if err = w.migrate(ctx, db, c); err != nil {
		return fmt.Errorf("failed to create geopackage tables: %w", err)
	}
	if err = w.insert(ctx, db, c); err != nil {
		return fmt.Errorf("failed to insert features: %w", err)
	}
	return db.Close()
}

func (w GeoPackageWriter) migrate(ctx context.Context, db *sql.DB, c *models.Collection) error {
	columns := make([]string, 0, len(Schema))
	for _, col := range Schema {
		columns = append(columns, fmt.Sprintf("%q %s", col.Name, sqliteType(col.Kind)))
	}

	queries := []string{
		fmt.Sprintf("PRAGMA application_id = %d;", gpkgApplicationID),
		fmt.Sprintf("PRAGMA user_version = %d;", gpkgUserVersion),
		`CREATE TABLE gpkg_spatial_ref_sys (
			srs_name TEXT NOT NULL,
			srs_id INTEGER NOT NULL PRIMARY KEY,
			organization TEXT NOT NULL,
			organization_coordsys_id INTEGER NOT NULL,
			definition TEXT NOT NULL,
			description TEXT
		);`,
		`CREATE TABLE gpkg_contents (
			table_name TEXT NOT NULL PRIMARY KEY,
			data_type TEXT NOT NULL,
			identifier TEXT UNIQUE,
			description TEXT DEFAULT '',
			last_change DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
			min_x DOUBLE,
			min_y DOUBLE,
			max_x DOUBLE,
			max_y DOUBLE,
			srs_id INTEGER,
			CONSTRAINT fk_gc_r_srs_id FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys(srs_id)
		);`,
		`CREATE TABLE gpkg_geometry_columns (
			table_name TEXT NOT NULL,
			column_name TEXT NOT NULL,
			geometry_type_name TEXT NOT NULL,
			srs_id INTEGER NOT NULL,
			z TINYINT NOT NULL,
			m TINYINT NOT NULL,
			CONSTRAINT pk_geom_cols PRIMARY KEY (table_name, column_name),
			CONSTRAINT uk_gc_table_name UNIQUE (table_name),
			CONSTRAINT fk_gc_tn FOREIGN KEY (table_name) REFERENCES gpkg_contents(table_name),
			CONSTRAINT fk_gc_srs FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys (srs_id)
		);`,
		fmt.Sprintf(`CREATE TABLE %q (
			fid INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
			geom POINT,
			%s
		);`, w.Layer, strings.Join(columns, ",\n\t\t\t")),
	}
	for _, q := range queries {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	srs := `INSERT INTO gpkg_spatial_ref_sys
		(srs_name, srs_id, organization, organization_coordsys_id, definition, description)
		VALUES (?, ?, ?, ?, ?, ?);`
	rows := [][]any{
		{"Undefined cartesian SRS", -1, "NONE", -1, "undefined", "undefined cartesian coordinate reference system"},
		{"Undefined geographic SRS", 0, "NONE", 0, "undefined", "undefined geographic coordinate reference system"},
		{"WGS 84 geodetic", wgs84SRSID, "EPSG", wgs84SRSID, wgs84WKT, "longitude/latitude coordinates in decimal degrees on the WGS 84 spheroid"},
	}
	for _, r := range rows {
		if _, err := db.ExecContext(ctx, srs, r...); err != nil {
			return err
		}
	}

	bounds := make([]any, 4)
	if c.Len() > 0 {
		b := c.Bound()
		bounds = []any{nullFloat(b.Min.X()), nullFloat(b.Min.Y()), nullFloat(b.Max.X()), nullFloat(b.Max.Y())}
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO gpkg_contents
		(table_name, data_type, identifier, min_x, min_y, max_x, max_y, srs_id)
		VALUES (?, 'features', ?, ?, ?, ?, ?, ?);`,
		w.Layer, w.Layer, bounds[0], bounds[1], bounds[2], bounds[3], wgs84SRSID,
	); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx, `INSERT INTO gpkg_geometry_columns
		(table_name, column_name, geometry_type_name, srs_id, z, m)
		VALUES (?, 'geom', 'POINT', ?, 0, 0);`, w.Layer, wgs84SRSID)
	return err
}

func (w GeoPackageWriter) insert(ctx context.Context, db *sql.DB, c *models.Collection) error {
	names := make([]string, 0, len(Schema)+1)
	marks := make([]string, 0, len(Schema)+1)
	names = append(names, "geom")
	marks = append(marks, "?")
	for _, col := range Schema {
		names = append(names, fmt.Sprintf("%q", col.Name))
		marks = append(marks, "?")
	}
	query := fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s);", w.Layer, strings.Join(names, ", "), strings.Join(marks, ", "))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(Schema)+1)
	for i := range c.Places {
		p := &c.Places[i]
		if args[0], err = encodeGeoPackageGeometry(p.Geometry); err != nil {
			return fmt.Errorf("geonameid %d: %w", p.GeonameID, err)
		}
		for j, col := range Schema {
			args[j+1] = col.Value(p)
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("geonameid %d: %w", p.GeonameID, err)
		}
	}
	return tx.Commit()
}

// encodeGeoPackageGeometry builds a GeoPackage binary geometry: the "GP" header
// with the SRS id and an [minx, maxx, miny, maxy] envelope, followed by
// little-endian WKB. Points with a NaN ordinate are flagged as empty.
func encodeGeoPackageGeometry(p orb.Point) ([]byte, error) {
	body, err := wkb.Marshal(p, binary.LittleEndian)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("GP")
	buf.WriteByte(0) // version 1

	empty := math.IsNaN(p.X()) || math.IsNaN(p.Y())
	var flags byte = 0x01 // little endian header
	if empty {
		flags |= 0x10
	} else {
		flags |= 0x02 // envelope indicator 1: [minx, maxx, miny, maxy]
	}
	buf.WriteByte(flags)

	_ = binary.Write(&buf, binary.LittleEndian, int32(wgs84SRSID))
	if !empty {
		_ = binary.Write(&buf, binary.LittleEndian, [4]float64{p.X(), p.X(), p.Y(), p.Y()})
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

func sqliteType(k Kind) string {
	switch k {
	case KindInteger:
		return "INTEGER"
	case KindReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: !math.IsNaN(f)}
}
