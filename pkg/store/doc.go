// Package store holds the uncontrolled values of a container.
//
// A Store owns one slot per key. The container seeds each slot once and then
// only writes through Update, which performs an atomic read-modify-write: the
// update function always receives the value left by the previous update of
// the same key, never a stale snapshot.
//
// Two implementations are provided:
//   - MemoryStore commits synchronously; the commit callback runs right after
//     the value is written.
//   - BatchStore defers commits until Flush. Queued updates are applied in
//     call order and every commit callback runs once the whole batch is
//     visible to Load.
//
// Data flow:
//
//	Container.RequestUpdate -> Store.Update(key, fn, committed) -> committed()
//
// Commit callbacks never run while the store lock is held, so they may issue
// new updates.
package store
