// Package git reads documentation pages from local git clones with go-git.
//
// Clones live under <root>/<owner>/<repository> (or <repository>.git for bare
// clones). Revisions resolve against local branches, remote-tracking branches,
// tags, full commit hashes and pull request refs (refs/pull/<n>/head) as
// fetched by `git fetch origin '+refs/pull/*:refs/pull/*'`.
package git
