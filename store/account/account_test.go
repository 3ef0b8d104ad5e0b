package account

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pandodao/safe-ledger/store"
	"github.com/pandodao/safe-ledger/store/storetest"
)

func TestFindCachesAccounts(t *testing.T) {
	db, mock := storetest.Open(t)
	s := New(db)

	// a single query serves both lookups
	mock.ExpectQuery("SELECT id, created_at, username FROM accounts WHERE id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), time.Now(), "test_user1"))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		account, err := s.Find(ctx, 1)
		if err != nil {
			t.Fatalf("Find() failed: %v", err)
		}

		if account.Username != "test_user1" {
			t.Errorf("Username = %q, want test_user1", account.Username)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindNotFoundIsNotCached(t *testing.T) {
	db, mock := storetest.Open(t)
	s := New(db)

	mock.ExpectQuery("FROM accounts").WithArgs(int64(9999)).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("FROM accounts").WithArgs(int64(9999)).WillReturnError(sql.ErrNoRows)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := s.Find(ctx, 9999); !store.IsErrNotFound(err) {
			t.Fatalf("Find() err = %v, want sql.ErrNoRows", err)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
