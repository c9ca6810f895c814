package backend

// Floor is one level of the building.
type Floor struct {
	ID          int64  `json:"id"`
	FloorNumber int    `json:"floorNumber"`
	Name        string `json:"name"`
	Rooms       []Room `json:"rooms,omitempty"`
}

// Room is a room record. Geometry is in diagram units; x and y are the
// room's translate in the floor diagram's frame.
type Room struct {
	ID         int64   `json:"id"`
	RoomNumber string  `json:"roomNumber"`
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Seats      []Seat  `json:"seats,omitempty"`
	// SeatIDs lists the room's seats when they are not nested in Seats.
	SeatIDs []int64 `json:"seatIds,omitempty"`
}

// Placed reports whether the room has been positioned on its floor.
// Unplaced rooms are stored at the origin.
func (r Room) Placed() bool { return r.X != 0 && r.Y != 0 }

// Seat is a seat record. x and y are relative to the owning room.
type Seat struct {
	ID          int64      `json:"id"`
	SeatNumber  string     `json:"seatNumber"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	Width       float64    `json:"width"`
	Height      float64    `json:"height"`
	Rotation    float64    `json:"rotation"`
	Occupied    bool       `json:"occupied,omitempty"`
	EmployeeIDs []int64    `json:"employeeIds,omitempty"`
	Employees   []Employee `json:"employees,omitempty"`
}

// Employee is a person who can be assigned to seats.
type Employee struct {
	ID         int64  `json:"id"`
	FullName   string `json:"fullName"`
	Occupation string `json:"occupation,omitempty"`
}

// RoomGeometry is the body of a room geometry write.
type RoomGeometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SeatGeometry is the body of a seat geometry write.
type SeatGeometry struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}
