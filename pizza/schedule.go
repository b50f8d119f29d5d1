package pizza

import (
	"maps"
	"slices"
)

// Reservation is an order already booked for a time slot.
type Reservation struct {
	Pizzas       []string `json:"pizzas" yaml:"pizzas"`
	Delivery     bool     `json:"delivery" yaml:"delivery"`
	CustomerName string   `json:"customer_name" yaml:"customer_name"`
	DesiredTime  string   `json:"desired_time" yaml:"desired_time" validate:"required"`
	Notes        string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Address      string   `json:"address,omitempty" yaml:"address,omitempty"`
}

// Schedule maps a time string to the reservation holding it. Lookups are exact string
// matches: "9:00" and "09:00" are different slots.
type Schedule map[string]Reservation

// DefaultSchedule returns the built-in bookings.
func DefaultSchedule() Schedule {
	return Schedule{
		"21:00": {
			Pizzas:       []string{"Margherita", "Pepperoni"},
			Delivery:     false,
			CustomerName: "John Doe",
			DesiredTime:  "21:00",
			Notes:        "No onions, extra spicy oil",
		},
		"22:00": {
			Pizzas:       []string{"Margherita", "Pepperoni"},
			Delivery:     true,
			CustomerName: "Jane Doe",
			DesiredTime:  "22:00",
			Notes:        "No onions, extra spicy oil",
			Address:      "123 Main St, Anytown, USA",
		},
	}
}

func (s Schedule) Taken(desiredTime string) bool {
	_, ok := s[desiredTime]
	return ok
}

// With returns a copy of s that also holds the given reservations. Later entries win.
func (s Schedule) With(reservations ...Reservation) Schedule {
	out := maps.Clone(s)
	if out == nil {
		out = Schedule{}
	}
	for _, r := range reservations {
		out[r.DesiredTime] = r
	}
	return out
}

// Times returns the booked slots in ascending string order.
func (s Schedule) Times() []string {
	return slices.Sorted(maps.Keys(s))
}
