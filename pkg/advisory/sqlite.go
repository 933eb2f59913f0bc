package advisory

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// LoadSQLite reads a pre-built SQLite advisory database into an
// Index. The whole database is loaded at construction; the file is
// not touched again afterwards.
//
// Expected schema:
//
//	advisories(package, id, description, affected_versions, fixed_versions)
//	advisory_references(advisory_id, url)
//	module_aliases(module, package)
func LoadSQLite(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open advisory database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("open advisory database: %w", err)
	}

	refs, err := loadReferences(db)
	if err != nil {
		return nil, err
	}

	doc := Database{
		Packages: make(map[string][]Record),
		Modules:  make(map[string]string),
	}

	// rowid order preserves the database's native advisory order.
	rows, err := db.Query(`SELECT package, id, description, affected_versions, COALESCE(fixed_versions, '')
		FROM advisories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query advisories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pkg string
		var rec Record
		if err := rows.Scan(&pkg, &rec.ID, &rec.Description, &rec.AffectedVersions, &rec.FixedVersions); err != nil {
			return nil, fmt.Errorf("scan advisory row: %w", err)
		}
		rec.References = refs[rec.ID]
		doc.Packages[pkg] = append(doc.Packages[pkg], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read advisories: %w", err)
	}

	if err := loadAliases(db, doc.Modules); err != nil {
		return nil, err
	}

	return NewIndex(doc)
}

func loadReferences(db *sql.DB) (map[string][]string, error) {
	refs := make(map[string][]string)

	rows, err := db.Query(`SELECT advisory_id, url FROM advisory_references ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query advisory references: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, url string
		if err := rows.Scan(&id, &url); err != nil {
			return nil, fmt.Errorf("scan reference row: %w", err)
		}
		refs[id] = append(refs[id], url)
	}
	return refs, rows.Err()
}

func loadAliases(db *sql.DB, out map[string]string) error {
	rows, err := db.Query(`SELECT module, package FROM module_aliases`)
	if err != nil {
		return fmt.Errorf("query module aliases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var module, pkg string
		if err := rows.Scan(&module, &pkg); err != nil {
			return fmt.Errorf("scan alias row: %w", err)
		}
		out[module] = pkg
	}
	return rows.Err()
}
