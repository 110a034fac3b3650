package migrations

import (
	"github.com/jmoiron/sqlx"
)

// InitSchema creates the application tables when they do not exist yet.
func InitSchema(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS regions (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS medical_brigades (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			region_id INTEGER NOT NULL REFERENCES regions(id)
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			id SERIAL PRIMARY KEY,
			full_name TEXT NOT NULL DEFAULT '',
			pinfl TEXT NOT NULL UNIQUE,
			profession TEXT NOT NULL CHECK (profession IN ('DOCTOR', 'NURSE')),
			region_id INTEGER NOT NULL REFERENCES regions(id),
			brigade_id INTEGER NOT NULL REFERENCES medical_brigades(id),
			cert1 BOOLEAN NOT NULL DEFAULT false,
			cert1_note TEXT,
			cert2 BOOLEAN NOT NULL DEFAULT false,
			cert2_note TEXT,
			cert3 BOOLEAN NOT NULL DEFAULT false,
			cert3_note TEXT,
			cert4 BOOLEAN NOT NULL DEFAULT false,
			cert4_note TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS module_results (
			id SERIAL PRIMARY KEY,
			candidate_id INTEGER NOT NULL REFERENCES candidates(id),
			module_number INTEGER NOT NULL CHECK (module_number BETWEEN 1 AND 4),
			status TEXT NOT NULL CHECK (status IN ('PASSED', 'FAILED', 'NO_SHOW_1', 'NO_SHOW_2')),
			attempt_number INTEGER NOT NULL DEFAULT 1,
			is_retake BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (candidate_id, module_number)
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			login TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('ADMIN', 'REGION')),
			region_id INTEGER REFERENCES regions(id),
			two_factor_enabled BOOLEAN NOT NULL DEFAULT false,
			two_factor_secret TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_region ON candidates(region_id)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_brigade ON candidates(brigade_id)`,
		`CREATE INDEX IF NOT EXISTS idx_module_results_candidate ON module_results(candidate_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
