// Package pizza is the pizza-order form: its record, reservation table, schemas, validators,
// lifecycle prompts and the FormSpec and Manager the form engine drives.
package pizza

import (
	"fmt"
	"strings"
)

// OrderRecord is the in-progress order filled in turn by turn. A nil Pizzas or Delivery means
// the customer has not said anything about it yet; an empty, non-nil Pizzas was said and is
// invalid.
type OrderRecord struct {
	Pizzas       []string `json:"pizzas" validate:"omitnil,min=1"`
	Delivery     *bool    `json:"delivery"`
	CustomerName string   `json:"customer_name,omitempty"`
	DesiredTime  string   `json:"desired_time" validate:"omitempty,slot_free"`
	Notes        string   `json:"notes,omitempty"`
	Address      string   `json:"address,omitempty"`
}

// WantsDelivery reports whether delivery was explicitly requested.
func (r *OrderRecord) WantsDelivery() bool {
	return r != nil && r.Delivery != nil && *r.Delivery
}

func orEmpty(r *OrderRecord) *OrderRecord {
	if r == nil {
		return &OrderRecord{}
	}
	return r
}

// Details are the fields shared by both order kinds.
type Details struct {
	Pizzas       []string `json:"pizzas"`
	CustomerName string   `json:"customer_name,omitempty"`
	DesiredTime  string   `json:"desired_time"`
	Notes        string   `json:"notes,omitempty"`
}

// Order is a finalised order: either a Pickup or a Delivery.
type Order interface {
	Kind() string
	OrderDetails() Details
	isOrder()
}

type Pickup struct {
	Details
}

func (Pickup) Kind() string            { return "pickup" }
func (p Pickup) OrderDetails() Details { return p.Details }
func (Pickup) isOrder()                {}

type Delivery struct {
	Details
	Address string `json:"address"`
}

func (Delivery) Kind() string            { return "delivery" }
func (d Delivery) OrderDetails() Details { return d.Details }
func (Delivery) isOrder()                {}

func newOrder(r *OrderRecord) Order {
	details := Details{
		Pizzas:       append([]string(nil), r.Pizzas...),
		CustomerName: r.CustomerName,
		DesiredTime:  r.DesiredTime,
		Notes:        r.Notes,
	}
	if r.WantsDelivery() {
		return Delivery{Details: details, Address: strings.TrimSpace(r.Address)}
	}
	return Pickup{Details: details}
}

// describe renders the collected fields on one line, skipping the ones not provided yet.
func describe(r *OrderRecord) string {
	r = orEmpty(r)
	var parts []string
	if r.Pizzas != nil {
		parts = append(parts, fmt.Sprintf("pizzas: %s", pizzaList(r.Pizzas)))
	}
	if r.Delivery != nil {
		if *r.Delivery {
			parts = append(parts, "delivery")
		} else {
			parts = append(parts, "pickup")
		}
	}
	if r.CustomerName != "" {
		parts = append(parts, fmt.Sprintf("customer name: %s", r.CustomerName))
	}
	if r.DesiredTime != "" {
		parts = append(parts, fmt.Sprintf("desired time: %s", r.DesiredTime))
	}
	if r.Notes != "" {
		parts = append(parts, fmt.Sprintf("notes: %s", r.Notes))
	}
	if r.WantsDelivery() && r.Address != "" {
		parts = append(parts, fmt.Sprintf("address: %s", r.Address))
	}
	if len(parts) == 0 {
		return "nothing yet"
	}
	return strings.Join(parts, "; ")
}

func pizzaList(pizzas []string) string {
	if len(pizzas) == 0 {
		return "(none)"
	}
	return strings.Join(pizzas, ", ")
}
