package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/bookstacks/circulation/internal/store"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "no rows",
			err:  sql.ErrNoRows,
			want: store.ErrNotFound,
		},
		{
			name: "wrapped no rows",
			err:  fmt.Errorf("query loan: %w", sql.ErrNoRows),
			want: store.ErrNotFound,
		},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "books_isbn_key"},
			want: store.ErrDuplicate,
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "loans_member_id_fkey"},
			want: store.ErrInvalidEntity,
		},
		{
			name: "check violation",
			err:  &pgconn.PgError{Code: "23514", ConstraintName: "loans_renew_count_check"},
			want: store.ErrInvalidEntity,
		},
		{
			name: "not null violation",
			err:  &pgconn.PgError{Code: "23502", ColumnName: "due_date"},
			want: store.ErrInvalidEntity,
		},
		{
			name: "serialization failure",
			err:  &pgconn.PgError{Code: "40001"},
			want: store.ErrConflict,
		},
		{
			name: "deadlock detected",
			err:  &pgconn.PgError{Code: "40P01"},
			want: store.ErrConflict,
		},
		{
			name: "lock not available",
			err:  &pgconn.PgError{Code: "55P03"},
			want: store.ErrConflict,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := MapError(tc.err)
			assert.ErrorIs(t, mapped, tc.want)
		})
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	assert.NoError(t, MapError(nil))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, MapError(plain))

	unknownCode := &pgconn.PgError{Code: "42601", Message: "syntax error"}
	assert.Equal(t, error(unknownCode), MapError(unknownCode))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert book: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "books_isbn_key",
	})

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "books_isbn_key"))
	assert.False(t, IsUniqueViolation(err, "members_email_key"))

	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(sql.ErrNoRows))
	assert.True(t, IsNotFound(store.ErrNotFound))
	assert.True(t, IsNotFound(store.ErrBookNotFound))
	assert.False(t, IsNotFound(store.ErrDuplicate))
	assert.False(t, IsNotFound(nil))
}

// fakeResult implements sql.Result for CheckRowsAffected tests.
type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, "book"))

	err := CheckRowsAffected(fakeResult{rows: 0}, "book")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "book")

	resultErr := errors.New("driver does not support RowsAffected")
	err = CheckRowsAffected(fakeResult{err: resultErr}, "book")
	assert.ErrorIs(t, err, resultErr)

	assert.Error(t, CheckRowsAffected(nil, "book"))
}
