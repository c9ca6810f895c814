// Package backend is the REST client for the seating persistence service.
//
// The service owns floors, rooms, seats and employees. The editor reads
// room and seat geometry, the floor diagram and employee names, and
// writes back room and seat geometry:
//
//	GET   /floors/{floorNumber}/svg
//	GET   /floors/{floorNumber}
//	GET   /rooms/{roomId}
//	GET   /seats/{seatId}
//	GET   /employees/{employeeId}
//	PATCH /rooms/{roomId}/geometry
//	PATCH /rooms/{roomId}/seats/{seatId}/geometry
//
// # Retry and caching
//
// Reads are retried once on transient failure (network errors and 5xx
// responses). Writes are never retried: the caller reports the failure
// and the user saves again.
//
// Diagrams and employee records are cached through [cache.Cache] when a
// cache is configured. Geometry is always fetched fresh.
package backend
