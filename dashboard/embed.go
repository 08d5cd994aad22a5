// Package dashboard provides the embedded web UI for QuickPoll.
//
// The page is a single HTML file with inline CSS and JavaScript, embedded at
// compile time so the quickpoll binary ships without external asset files.
// It talks to the JSON API under /api and renders the home, create, join,
// vote and results screens.
//
// The embedded assets are served by the server package at the root path ("/").
package dashboard

import "embed"

// Assets is an embedded filesystem containing the web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - The single-page UI; "{{.Title}}" is replaced at serve time
//
//go:embed assets/*
var Assets embed.FS
