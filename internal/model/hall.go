package model

// Hall mirrors the 'halls' table.  Reservations reference a hall by its ID;
// the table itself only carries display data.
type Hall struct {
	ID       uint64 // halls.h_id
	Name     string // halls.h_name
	Capacity uint32 // halls.h_capacity
}
