// Package gallery lists the photos behind the kennelPhotos and dogPhotos
// folders of the content tree.
package gallery
