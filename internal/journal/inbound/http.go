package inbound

import (
	"net/http"

	"github.com/prasetyoadi/rolodex/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/journal/entries", end.EntryList)
	r.GETRaw("/api/v1/journal/stream", http.HandlerFunc(end.StreamEntries))
}
