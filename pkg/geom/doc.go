// Package geom is the transform model of the floor-plan editor.
//
// # Overview
//
// Every scene object owns exactly one [Transform]: a translate followed by
// an optional rotate whose pivot is the object's local half-width and
// half-height. Because translate is applied first and the pivot is local,
// rotating never moves the object's top-left anchor.
//
// The transform is the system of record. Its SVG string form is render
// output; [ParseTranslate] and [ParseTransform] exist only to hydrate
// objects from previously rendered or persisted markup.
//
// # Coordinate spaces
//
// Three spaces appear throughout the editor:
//
//   - screen: pointer coordinates, after pan/zoom
//   - scene: the floor diagram's native frame (its viewBox)
//   - local: an object's own frame before its translate/rotate
//
// [Zoom] maps scene to screen; [Matrix] composes the rest. A Seat's
// on-screen matrix is zoom · room translate · seat transform:
//
//	ctm := zoom.Matrix().Mul(room.Matrix()).Mul(seat.Matrix())
//	local, _ := ctm.Invert()
//	p := local.Apply(pointer)
package geom
