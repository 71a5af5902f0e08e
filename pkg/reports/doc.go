/*
Package reports orchestrates analysis runs behind a report cache.

A Manager resolves models through a ports.ModelLoader, keys reports by model
name and digest, and serializes work on the same key with a local mutex and,
across replicas, an optional ports.DistributedLocker.
*/
package reports
