// Package editor holds the live, mutable objects of a floor-plan scene and
// the gestures that change them.
//
// # Objects
//
// A [Room] is positioned in scene coordinates and owns zero or more
// [Seat] values. A Seat's translate is always expressed in its Room's
// local frame: moving the Room never touches Seat coordinates, and the
// Seat's on-screen position is the product of both transforms.
//
// Rooms move and resize but never rotate. Seats move and rotate between
// 0° and 90° but never resize.
//
// # Dependent elements
//
// Labels, info boxes and resize handles are never stored. [Seat.Label],
// [Room.InfoBox] and [Room.Handle] compute them from the owner's current
// geometry on every call, so they cannot drift out of sync with the
// object they annotate.
//
// # Gestures
//
// A drag or resize is a [Session]: [StartDrag] or [StartResize] captures
// the grab offset, [Session.Move] applies a pointer position through the
// constraint engine, and [Session.End] closes it. Pointer positions are
// expressed in the parent space of the object being moved: scene
// coordinates for a Room, Room-local coordinates for a Seat or a resize
// handle. Converting from screen coordinates is the caller's job (see
// package scene).
package editor
