package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "serialization failure",
			err:  &pgconn.PgError{Code: "40001", Message: "could not serialize access"},
			want: true,
		},
		{
			name: "deadlock detected",
			err:  &pgconn.PgError{Code: "40P01", Message: "deadlock detected"},
			want: true,
		},
		{
			name: "wrapped serialization failure",
			err:  fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"}),
			want: true,
		},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isSerializationFailure(tc.err))
		})
	}
}

func TestNewTxManagerPanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewTxManager(nil) })
}
