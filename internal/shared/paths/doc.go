// Package paths converts between the two spellings of a content path.
//
// Internally a path is a dotted key list in which a literal "children"
// segment marks descent into a container:
//
//	ourDogs.children.breedingProgram.children.studs
//
// Externally, in the address fragment, every ".children." boundary collapses
// to a single "#":
//
//	ourDogs#breedingProgram#studs
//
// # Usage
//
//	import "github.com/GriffinCanCode/KennelOS/backend/internal/shared/paths"
//
//	fragment := paths.ToExternal("ourDogs.children.championRex") // ourDogs#championRex
//	path := paths.ToInternal(fragment)                          // ourDogs.children.championRex
//	child := paths.Child("ourDogs", "ladyLuna")                 // ourDogs.children.ladyLuna
//
// Paths never contain a literal '#', so ToInternal(ToExternal(p)) == p for
// every path built with Child.
package paths
