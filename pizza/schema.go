package pizza

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/eino-contrib/jsonschema"
	"github.com/tbxark/pizzaform/patch"
	"github.com/tbxark/pizzaform/types"
)

// Schema is the field set an in-progress order must satisfy. There are exactly two:
// OrderSchema for pickup and DeliverySchema, which adds a required address.
type Schema interface {
	Name() string
	Fields() []types.FieldInfo
	AllowedPaths() []string
	Missing(rec *OrderRecord) []types.FieldInfo
	Document() (string, error)
	sealed()
}

var (
	OrderSchema    Schema = orderSchema{}
	DeliverySchema Schema = deliverySchema{}
)

// SelectSchema picks DeliverySchema when the record asks for delivery, OrderSchema otherwise.
// It is re-evaluated every turn, so the required fields follow the delivery flag.
func SelectSchema(rec *OrderRecord) Schema {
	if rec.WantsDelivery() {
		return DeliverySchema
	}
	return OrderSchema
}

var (
	fieldPizzas = types.FieldInfo{
		JSONPointer: "/pizzas",
		DisplayName: "pizzas",
		Description: "List of pizzas requested by the customer, e.g. Margherita, Pepperoni",
		Required:    true,
	}
	fieldDelivery = types.FieldInfo{
		JSONPointer: "/delivery",
		DisplayName: "delivery",
		Description: "True if the customer wants delivery, false for pickup",
		Required:    true,
	}
	fieldCustomerName = types.FieldInfo{
		JSONPointer: "/customer_name",
		DisplayName: "customer name",
		Description: "Customer's name",
	}
	fieldDesiredTime = types.FieldInfo{
		JSONPointer: "/desired_time",
		DisplayName: "desired time",
		Description: "Desired time for delivery or pickup, formatted HH:MM",
		Required:    true,
	}
	fieldNotes = types.FieldInfo{
		JSONPointer: "/notes",
		DisplayName: "notes",
		Description: "Additional notes, e.g. no onions, extra spicy oil",
	}
	fieldAddress = types.FieldInfo{
		JSONPointer: "/address",
		DisplayName: "address",
		Description: "Delivery address",
		Required:    true,
	}
)

// Address is writable under both schemas so "deliver it to ..." can be captured in the same
// turn that flips the delivery flag; pickup simply ignores it.
var allowedPaths = sync.OnceValue(func() []string {
	return patch.AllPaths[OrderRecord]()
})

type orderSchema struct{}

func (orderSchema) Name() string { return "PizzaOrder" }

func (orderSchema) Fields() []types.FieldInfo {
	return []types.FieldInfo{fieldPizzas, fieldDelivery, fieldCustomerName, fieldDesiredTime, fieldNotes}
}

func (orderSchema) AllowedPaths() []string { return allowedPaths() }

func (orderSchema) Missing(rec *OrderRecord) []types.FieldInfo {
	rec = orEmpty(rec)
	var missing []types.FieldInfo
	if rec.Pizzas == nil {
		missing = append(missing, fieldPizzas)
	}
	if rec.Delivery == nil {
		missing = append(missing, fieldDelivery)
	}
	if strings.TrimSpace(rec.DesiredTime) == "" {
		missing = append(missing, fieldDesiredTime)
	}
	return missing
}

func (orderSchema) Document() (string, error) { return pickupDocument() }

func (orderSchema) sealed() {}

type deliverySchema struct {
	orderSchema
}

func (deliverySchema) Name() string { return "PizzaOrderWithDelivery" }

func (s deliverySchema) Fields() []types.FieldInfo {
	return append(s.orderSchema.Fields(), fieldAddress)
}

func (s deliverySchema) Missing(rec *OrderRecord) []types.FieldInfo {
	missing := s.orderSchema.Missing(rec)
	if strings.TrimSpace(orEmpty(rec).Address) == "" {
		missing = append(missing, fieldAddress)
	}
	return missing
}

func (deliverySchema) Document() (string, error) { return deliveryDocument() }

// The document types only exist to reflect JSON Schemas for the model.
type pickupOrderDoc struct {
	Pizzas       []string `json:"pizzas" jsonschema:"description=List of pizzas requested by the customer (e.g. Margherita or Pepperoni),minItems=1"`
	Delivery     bool     `json:"delivery" jsonschema:"description=True if the customer wants delivery and false for pickup"`
	CustomerName string   `json:"customer_name,omitempty" jsonschema:"description=Customer's name"`
	DesiredTime  string   `json:"desired_time" jsonschema:"description=Desired time for delivery or pickup (format HH:MM),pattern=^[0-9]?[0-9]:[0-9][0-9]$"`
	Notes        string   `json:"notes,omitempty" jsonschema:"description=Additional notes (e.g. no onions or extra spicy oil)"`
}

type deliveryOrderDoc struct {
	Pizzas       []string `json:"pizzas" jsonschema:"description=List of pizzas requested by the customer (e.g. Margherita or Pepperoni),minItems=1"`
	Delivery     bool     `json:"delivery" jsonschema:"description=Always true for this schema"`
	CustomerName string   `json:"customer_name,omitempty" jsonschema:"description=Customer's name"`
	DesiredTime  string   `json:"desired_time" jsonschema:"description=Desired delivery time (format HH:MM),pattern=^[0-9]?[0-9]:[0-9][0-9]$"`
	Notes        string   `json:"notes,omitempty" jsonschema:"description=Additional notes (e.g. no onions or extra spicy oil)"`
	Address      string   `json:"address" jsonschema:"description=Delivery address"`
}

var (
	pickupDocument = sync.OnceValues(func() (string, error) {
		return renderDocument(&pickupOrderDoc{}, OrderSchema.Name(), "A pizza order collected for pickup.")
	})
	deliveryDocument = sync.OnceValues(func() (string, error) {
		return renderDocument(&deliveryOrderDoc{}, DeliverySchema.Name(), "A pizza order to be delivered to the customer's address.")
	})
)

func renderDocument(v any, title, description string) (string, error) {
	schema := jsonschema.Reflect(v)
	schema.Title = title
	schema.Description = description
	data, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON schema: %w", err)
	}
	return string(data), nil
}
