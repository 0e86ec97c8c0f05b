// Package fmnlib holds the reminder model shared by the fmn client and
// daemon: tasks, their schedules, the recurrence calculator and the
// durable task stores.
package fmnlib
