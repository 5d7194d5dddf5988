// Package sqlite is the default durable key-value store, kept in a single
// SQLite file under the data directory.
//
// It uses modernc.org/sqlite, so no cgo toolchain is needed. The schema is
// created by the numbered scripts in migrations/, each applied once.
package sqlite
