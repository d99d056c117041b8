package gormrepo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pg other", &pgconn.PgError{Code: "23503"}, false},
		{"message", errors.New(`ERROR: duplicate key value violates unique constraint "session_credentials_pkey"`), true},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		if got := isUniqueViolation(tc.err); got != tc.want {
			t.Fatalf("%s: got=%v want=%v", tc.name, got, tc.want)
		}
	}
}
