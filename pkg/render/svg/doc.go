// Package svg projects a scene to SVG markup.
//
// Rendering is stateless: every call reads the live model and writes a
// complete document. Nothing in the editor reads this markup back except
// persist.ReadSVG, which recovers geometry from a saved rendering.
//
// # Structure
//
//	<svg viewBox="frame">
//	  <g class="background" transform="pan/zoom">diagram</g>
//	  <g class="interactive" transform="pan/zoom">
//	    <g class="room" data-room-id="1" transform="translate(x, y)">
//	      <rect class="room-body" .../>
//	      <rect class="seat" data-seat-id="7" transform="translate(..) rotate(..)" .../>
//	      <text class="seat-label" ...>
//	      <rect class="info-box" .../> <foreignObject .../>
//	      <circle class="handle" .../>
//	    </g>
//	  </g>
//	</svg>
//
// Both layers always carry the same transform. [WithFloorView] renders
// the read-only floor overview instead: translucent rooms with their
// names, seats and labels, and no info boxes or handles.
package svg

// Class names shared with readers of rendered output.
const (
	ClassBackground  = "background"
	ClassInteractive = "interactive"
	ClassRoom        = "room"
	ClassRoomBody    = "room-body"
	ClassSeat        = "seat"
	ClassSeatLabel   = "seat-label"
	ClassInfoBox     = "info-box"
	ClassHandle      = "handle"
)

// Data attributes carrying entity identity.
const (
	AttrRoomID = "data-room-id"
	AttrSeatID = "data-seat-id"
	AttrNumber = "data-number"
	AttrName   = "data-name"
)
