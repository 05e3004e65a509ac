// Package integrity provides operational health checks of the reconciliation service.
//
// Unlike the 'reconciliation' package which runs jobs, this package validates
// the infrastructure the jobs depend on.
//
// # Checks Provided
//
//   - Schema: Validates that the database tables match the GORM models (columns, types).
//   - Staging: Finds staged inputs left behind by completed or deleted jobs and
//     optionally removes them. Inputs of failed jobs are kept for inspection.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/staging : Runs the staging check (supports ?fix=true).
package integrity
