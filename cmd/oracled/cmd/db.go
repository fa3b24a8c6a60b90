package cmd

import (
	"fmt"

	dbm "github.com/cosmos/cosmos-db"
)

const stateDBName = "state"

func openDB(backend, dir string) (dbm.DB, error) {
	switch dbm.BackendType(backend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return nil, fmt.Errorf("unsupported db backend %q", backend)
	}

	db, err := dbm.NewDB(stateDBName, dbm.BackendType(backend), dir)
	if err != nil {
		return nil, fmt.Errorf("open %s state db: %w", backend, err)
	}
	return db, nil
}
