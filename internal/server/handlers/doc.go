// Package handlers contains the HTTP handlers of the docpage API.
//
// This package provides handlers for:
//   - Page bundles, addressed by path (/api/pages/...) or by query (/api/bundle)
//   - The uncompiled debug view of a page (/api/inspect/...)
//   - Health checks
//
// Handlers write errors through the foundation/errors HTTPErrorAdapter and
// bodies through the server/responses types, so the HTTP API and the CLI
// print the same shapes.
package handlers
