// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/nats-io/nats.go/jetstream"
)

// NATS Key-Value store bucket names
const (
	KVStoreNameRoomHooks       = "room-hooks"
	KVStoreNameRoomTracking    = "room-tracking"
	KVStoreNameRoomViewEntries = "room-view-entries"
)

// INatsKeyValue is the subset of jetstream.KeyValue the repositories need;
// it allows for mocking in tests.
type INatsKeyValue interface {
	ListKeys(context.Context, ...jetstream.WatchOpt) (jetstream.KeyLister, error)
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(context.Context, string, []byte) (uint64, error)
	Update(context.Context, string, []byte, uint64) (uint64, error)
	Delete(context.Context, string, ...jetstream.KVDeleteOpt) error
}
