// Package mock provides in-process stand-ins for the stores, brokers and providers the
// application talks to, shared by unit tests and the BDD suite.
package mock

import (
	"context"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/infra/db"
	"github.com/family-budget/backend/internal/integration/localstore"
	"github.com/family-budget/backend/internal/integration/remote"
)

// NewLocalStore opens a private in-memory local store. Close the returned database when done.
func NewLocalStore() (adapter.LocalStore, *db.Database) {
	database, err := db.NewSQLiteConnection(":memory:")
	if err != nil {
		panic(err)
	}
	if err := localstore.Migrate(context.Background(), database.DB()); err != nil {
		panic("failed to migrate local store. err: " + err.Error())
	}
	return localstore.NewStore(database.DB()), database
}

// NewRemoteStore opens a private in-memory remote backend. Closing the returned database
// makes every gateway call fail, which is how tests simulate transport errors.
func NewRemoteStore() (adapter.RemoteStore, *db.Database) {
	database, err := db.NewSQLiteConnection(":memory:")
	if err != nil {
		panic(err)
	}
	if err := remote.Migrate(context.Background(), database.DB()); err != nil {
		panic("failed to migrate remote store. err: " + err.Error())
	}
	return remote.NewGateway(database.DB()), database
}

// NewEmailQueue opens a private in-memory email queue on a migrated local store.
func NewEmailQueue() (adapter.EmailQueue, *db.Database) {
	_, database := NewLocalStore()
	return localstore.NewEmailQueue(database.DB()), database
}
