package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"barberbook/backend/internal/store"
)

func TestMapWriteError(t *testing.T) {
	other := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "exclusion on overlap constraint",
			err:  &pgconn.PgError{Code: pgerrcode.ExclusionViolation, ConstraintName: constraintNoOverlap},
			want: store.ErrConflict,
		},
		{
			name: "unique on active start index",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintStaffStartActive}),
			want: store.ErrConflict,
		},
		{
			name: "unique on primary key",
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintPrimaryKey},
			want: store.ErrDuplicateID,
		},
		{
			name: "unique on another constraint",
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"},
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "appointments_service_id_fkey"},
		},
		{
			name: "not a pg error",
			err:  other,
			want: other,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapWriteError(tt.err)
			if tt.want == nil {
				if errors.Is(got, store.ErrConflict) {
					t.Fatalf("mapWriteError = %v, want passthrough", got)
				}
				if got != tt.err {
					t.Fatalf("mapWriteError = %v, want original %v", got, tt.err)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("mapWriteError = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractGooseUp(t *testing.T) {
	up, err := extractGooseUp("-- +goose Up\nCREATE TABLE a (id int);\n-- +goose Down\nDROP TABLE a;\n")
	if err != nil {
		t.Fatalf("extractGooseUp error: %v", err)
	}
	if up != "CREATE TABLE a (id int);" {
		t.Fatalf("up = %q", up)
	}

	if _, err := extractGooseUp("CREATE TABLE a (id int);"); err == nil {
		t.Fatalf("expected error for missing marker")
	}
}

func TestSplitSQLStatements(t *testing.T) {
	got := splitSQLStatements("CREATE TABLE a (id int);\n\n ;CREATE INDEX a_idx ON a (id);")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %q", len(got), got)
	}
	if got[1] != "CREATE INDEX a_idx ON a (id)" {
		t.Fatalf("second stmt = %q", got[1])
	}
}

func TestLoadMigrations_Embedded(t *testing.T) {
	migs, err := loadMigrations(migrationFiles)
	if err != nil {
		t.Fatalf("loadMigrations error: %v", err)
	}
	if len(migs) == 0 {
		t.Fatalf("expected embedded migrations")
	}
	if migs[0].version != "0001_init" {
		t.Fatalf("first version = %q, want 0001_init", migs[0].version)
	}
	for _, want := range []string{constraintNoOverlap, constraintStaffStartActive, "ON DELETE SET NULL"} {
		if !strings.Contains(migs[0].upSQL, want) {
			t.Fatalf("init migration missing %q", want)
		}
	}
	if strings.Contains(migs[0].upSQL, "DROP TABLE") {
		t.Fatalf("up section leaked down statements")
	}
}
