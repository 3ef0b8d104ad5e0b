// Package storetest opens *nap.DB handles backed by go-sqlmock.
package storetest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/tsenart/nap"
)

var seq atomic.Uint64

// Open returns a nap.DB whose single pool talks to a fresh sqlmock connection.
func Open(t testing.TB) (*nap.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mocks := open(t, 1)
	return db, mocks[0]
}

// OpenReplicated returns a nap.DB with a master and one replica, each backed
// by its own sqlmock connection.
func OpenReplicated(t testing.TB) (db *nap.DB, master, replica sqlmock.Sqlmock) {
	t.Helper()

	db, mocks := open(t, 2)
	return db, mocks[0], mocks[1]
}

func open(t testing.TB, n int) (*nap.DB, []sqlmock.Sqlmock) {
	t.Helper()

	dsns := make([]string, n)
	mocks := make([]sqlmock.Sqlmock, n)
	for i := range dsns {
		dsns[i] = fmt.Sprintf("storetest_%d", seq.Add(1))

		raw, mock, err := sqlmock.NewWithDSN(dsns[i])
		if err != nil {
			t.Fatalf("sqlmock.NewWithDSN: %v", err)
		}

		t.Cleanup(func() { _ = raw.Close() })
		mocks[i] = mock
	}

	db, err := nap.Open("sqlmock", strings.Join(dsns, ";"))
	if err != nil {
		t.Fatalf("nap.Open: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db, mocks
}
