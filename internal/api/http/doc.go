// Package http exposes desktop sessions and the kennel content API over gin.
//
// Session commands reply with the resulting snapshot and set the
// X-Fragment-Generation header, so a tab can tag the hashchange it sees
// after applying the snapshot.
//
// Routes:
//
//	GET    /tree, /resolve?path=, /menu, /share?path=
//	POST   /sessions                       create a desktop for a tab
//	POST   /sessions/:id/open              {path, force_create, update_fragment}
//	POST   /sessions/:id/fragment          {fragment, generation}
//	POST   /sessions/:id/windows/:wid/...  focus, minimize, maximize, close, move
//	GET    /api/dogs/:id, /api/contacts, /api/weather
package http
