// Package mcp exposes model analysis as Model Context Protocol tools, so
// agents can list models, fetch reports and query concurrent spaces.
package mcp
