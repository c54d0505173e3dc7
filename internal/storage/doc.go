// Package storage keeps the activity journal of the control panel: one entry
// per add, remove or import sent to the redirects backend.
//
// The package supports multiple types of storage:
// 1. StorageDB - for working with a PostgreSQL database.
// 2. StorageFile - for storing entries as JSON lines in a file on disk.
// 3. StorageMemory - for storing entries in memory.
package storage
