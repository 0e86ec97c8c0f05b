// Package scheduler drives reminder firing for the fmn daemon. It keeps a
// min-heap of pending task ids ordered by next fire time (ties by id),
// sleeps until the earliest one or until a mutation wakes it, fires every
// due task and writes the post-fire state back to the task store.
//
// Sleeps are capped at 60 seconds so NTP steps, DST transitions and system
// sleep are noticed within a minute. Notification dispatch runs outside the
// index lock with a bounded timeout.
package scheduler
