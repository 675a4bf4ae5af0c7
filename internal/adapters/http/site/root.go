// Package site serves the embedded participant form and its assets.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded site routes to mux. The root pattern also
// catches unknown paths, which the file server answers with 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/", http.FileServer(FS()))
}
