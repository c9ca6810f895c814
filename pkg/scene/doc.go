// Package scene arranges editor objects into a pannable, zoomable floor
// view and turns raw pointer input into gestures.
//
// A [Scene] has two layers created once at construction: the background
// layer, which holds the floor diagram, and the interactive layer, which
// holds one group per room. Both layers always carry the same pan/zoom
// transform; every operation that changes the view writes it to both.
//
// # Coordinate spaces
//
//	screen ──Zoom⁻¹──▶ scene ──room translate⁻¹──▶ room-local ──seat⁻¹──▶ seat-local
//
// Room translates are scene coordinates. Seat translates are room-local.
// [Scene.ScreenToScene] and [Scene.SceneToLocal] convert between them, and
// [Scene.CTM] returns the full matrix for an object the way a browser's
// getCTM would.
//
// # Input
//
// [Dispatcher] accepts pointer events in screen coordinates, hit tests
// them, and runs the matching [editor.Session]. Only one gesture is live
// at a time. After [Scene.Detach] every operation fails with
// [ErrDetached].
package scene
