/*
Package ports defines the driven ports of the analysis services.

# Key Interfaces

  - ModelLoader: resolves model names into process sets (YAML files, memory).
  - ReportStore: caches analysis reports (memory, Redis).
  - DistributedLocker: keeps replicas from analyzing the same model twice.

RunReportStoreContract and RunLockerContract are reusable suites every
adapter runs in its own tests.
*/
package ports
