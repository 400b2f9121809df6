// Package mbaas is a client for a mobile backend object store.
//
// # Records
//
// A [Record] holds the fields of one object of a kind, such as "user" or a
// class name, and remembers which fields were changed since the last sync.
// [Record.Set] and [Record.Remove] change fields; fields the service manages
// (objectId, acl, createDate, updateDate and the per-kind system fields) are
// only written through typed accessors like [Record.SetPassword].
//
// [Client.Save] creates a record with all of its fields when it has no
// objectId and otherwise sends only the changed fields. A removed field is sent
// as null, which clears it on the service.
//
// # Calling conventions
//
// Every operation is a [Task]. The plain methods ([Client.Fetch],
// [Client.Save], [Client.Delete], [Query.Find], ...) wait for it; the
// InBackground variants run it on a goroutine and report to a [Callback].
//
// # Current user and installation
//
// The client keeps the logged-in user and this device's installation in a
// [CurrentStore] and mirrors them to a [github.com/mbaas/mbaas.go/pkg/filestore.FileStore].
// Saving or fetching the record that is current refreshes it; saving some
// other user does not.
//
// # Queries
//
// [Query] builds the where, order, skip, limit and count parameters of a
// search and turns results back into records.
package mbaas
