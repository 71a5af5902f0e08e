/*
Package modelfile loads process sets from YAML or JSON model documents.

A Loader serves a directory through a read-only Loam repository: every
top-level document that places at least one process is a model, named after
its file. Watch reports models whose documents change, which the report
manager uses to drop stale cached reports.

LoadFile reads a single document outside of any repository. Both paths
fingerprint the decoded document, so the digest of a model does not depend on
how it was loaded or formatted.
*/
package modelfile
