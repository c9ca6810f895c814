// Package persist moves geometry between the backend and the live scene.
//
// Hydration builds [editor.Room] and [editor.Seat] objects from backend
// records. Seats come either nested in the room record or, when the
// backend only lists seatIds, from one fetch per seat. Each seat's
// employees are then fetched concurrently; a failed fetch leaves that
// employee out without affecting its siblings.
//
// Saving reads the live model, never rendered markup: one room write and
// one write per seat. Writes are independent and each outcome is
// reported separately in a [Report] and as a [notice.Notice]. Nothing is
// rolled back; saving again replaces the geometry wholesale.
//
// [ReadSVG] is the one place that parses transforms, to recover
// geometry from a scene previously rendered by package svg.
package persist
