// Package content resolves a page path into page content and a compiled bundle.
//
// Service.Resolve runs the request pipeline in order: path to pointer, pull
// request resolution, fetch, configuration merge, variable substitution,
// front-matter extraction, redirect check and compilation. Each step depends on
// the previous one, so nothing runs concurrently within a request and nothing is
// shared between requests.
package content
