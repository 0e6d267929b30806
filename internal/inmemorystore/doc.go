// Package inmemorystore provides a thread-safe, in-memory implementation
// of the scenariostore.Store interface. It is suitable for development,
// testing, or any deployment where documents are recompiled on start.
package inmemorystore
