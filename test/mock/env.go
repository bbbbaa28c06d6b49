package mock

import (
	"context"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/application/storage"
	"github.com/family-budget/backend/internal/infra/db"
)

// Env wires a dispatcher to an in-memory local store, an in-memory remote backend and a
// switchable connectivity signal.
type Env struct {
	Local        adapter.LocalStore
	Remote       adapter.RemoteStore
	Connectivity *Connectivity
	Notifier     *SyncNotifier
	Dispatcher   *storage.Dispatcher

	localDB  *db.Database
	remoteDB *db.Database
}

// NewEnv creates an online environment.
func NewEnv() *Env {
	local, localDB := NewLocalStore()
	remoteStore, remoteDB := NewRemoteStore()
	conn := NewConnectivity(true)
	notifier := &SyncNotifier{}

	return &Env{
		Local:        local,
		Remote:       remoteStore,
		Connectivity: conn,
		Notifier:     notifier,
		Dispatcher:   storage.NewDispatcher(storage.NewPolicy(conn), local, notifier),
		localDB:      localDB,
		remoteDB:     remoteDB,
	}
}

// NewUnreachableEnv creates an environment whose remote backend panics when called.
func NewUnreachableEnv() *Env {
	env := NewEnv()
	_ = env.remoteDB.Close()
	env.remoteDB = nil
	env.Remote = UnreachableRemote{}
	return env
}

// FailRemote closes the remote backend so that every call returns an error.
func (e *Env) FailRemote() {
	if e.remoteDB != nil {
		_ = e.remoteDB.Close()
	}
}

// QueueLen returns the number of pending sync items.
func (e *Env) QueueLen() int {
	items, err := e.Local.Sync().GetAll(context.Background())
	if err != nil {
		panic(err)
	}
	return len(items)
}

// Close releases both databases.
func (e *Env) Close() {
	if e.localDB != nil {
		_ = e.localDB.Close()
	}
	if e.remoteDB != nil {
		_ = e.remoteDB.Close()
	}
}
