// Package content is the read-only tree the desktop navigates.
//
// Roots, drives and folders hold children; files are leaves. Nodes are
// addressed by internal paths such as "ourDogs.children.championRex", and
// children keep their declaration order, which is the order folder views
// list them in. The default tree is embedded from kennel.yaml; LoadFile
// reads a replacement.
package content
