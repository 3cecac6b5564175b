// Package router maps windows to the collaborators that render their bodies.
//
// Collaborators own their data retrieval. The only write they may issue back
// into the desktop is Open, as the folder browser does when a child is
// activated.
package router
