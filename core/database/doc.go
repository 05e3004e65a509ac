// Package database handles database connections and schema inspection.
//
// Connect wraps GORM and opens either MySQL, with timeouts encoded in the DSN,
// or SQLite, which is used for local runs and tests (Name ":memory:").
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table on either dialect and
// MissingColumns compares them with an expected set. Migrations use it to
// verify the result of AutoMigrate.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	missing, err := database.MissingColumns(db, "reconciliation_jobs", []string{"id", "status"})
package database
