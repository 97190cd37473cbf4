package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// schema is applied in order; every statement is idempotent.
var schema = []struct {
	name  string
	query string
}{
	{
		name: "create courses",
		query: `
		CREATE TABLE IF NOT EXISTS courses (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			course_name TEXT NOT NULL,
			description TEXT NOT NULL,
			duration TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
			image_url TEXT NOT NULL DEFAULT '',
			prerequisites TEXT[] NOT NULL DEFAULT '{}',
			max_registrations INTEGER NOT NULL CHECK (max_registrations >= 1),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "create students",
		query: `
		CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id TEXT NOT NULL CHECK (student_id ~ '^[0-9]{5}$'),
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT students_student_id_key UNIQUE (student_id),
			CONSTRAINT students_email_key UNIQUE (email)
		)`,
	},
	{
		name: "create registrations",
		query: `
		CREATE TABLE IF NOT EXISTS registrations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id TEXT NOT NULL REFERENCES students (student_id),
			course_id UUID NOT NULL REFERENCES courses (id),
			payment_status TEXT NOT NULL DEFAULT 'Unpaid' CHECK (payment_status IN ('Paid', 'Unpaid')),
			agreement_accepted BOOLEAN NOT NULL DEFAULT FALSE,
			registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT registrations_student_course_key UNIQUE (student_id, course_id)
		)`,
	},
	{
		name: "index paid registrations",
		query: `
		CREATE INDEX IF NOT EXISTS registrations_course_paid_idx
			ON registrations (course_id) WHERE payment_status = 'Paid'`,
	},
	{
		name: "create agreements",
		query: `
		CREATE TABLE IF NOT EXISTS agreements (
			student_id TEXT NOT NULL,
			course_id TEXT NOT NULL,
			accepted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (student_id, course_id)
		)`,
	},
}

// Migrate checks and applies the schema
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	logger.Info().Msg("Running database migrations")
	for _, step := range schema {
		if _, err := pool.Exec(ctx, step.query); err != nil {
			return fmt.Errorf("migration %q: %w", step.name, err)
		}
		logger.Debug().Str("migration", step.name).Msg("Migration applied")
	}
	logger.Info().Msg("Database migrations completed successfully")
	return nil
}
