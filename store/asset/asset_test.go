package asset

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pandodao/safe-ledger/store"
	"github.com/pandodao/safe-ledger/store/storetest"
)

func TestFind(t *testing.T) {
	db, mock := storetest.Open(t)
	s := New(db)

	now := time.Now()
	mock.ExpectQuery("SELECT id, created_at, symbol, name FROM assets WHERE id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), now, "BTC", "Bitcoin"))

	asset, err := s.Find(context.Background(), 1)
	if err != nil {
		t.Fatalf("Find() failed: %v", err)
	}

	if asset.ID != 1 || asset.Symbol != "BTC" || asset.Name != "Bitcoin" {
		t.Errorf("Find() = %+v", asset)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindNotFound(t *testing.T) {
	db, mock := storetest.Open(t)
	s := New(db)

	mock.ExpectQuery("FROM assets WHERE id = \\$1").
		WithArgs(int64(9999)).
		WillReturnError(sql.ErrNoRows)

	if _, err := s.Find(context.Background(), 9999); !store.IsErrNotFound(err) {
		t.Errorf("Find() err = %v, want sql.ErrNoRows", err)
	}
}

func TestList(t *testing.T) {
	db, mock := storetest.Open(t)
	s := New(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM assets ORDER BY id").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), now, "BTC", "Bitcoin").
			AddRow(int64(2), now, "ETH", "Ethereum"))

	assets, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	if len(assets) != 2 || assets[1].Symbol != "ETH" {
		t.Errorf("List() = %+v", assets)
	}
}
