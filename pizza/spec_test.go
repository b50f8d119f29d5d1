package pizza

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormSpec(t *testing.T) {
	spec := NewFormSpec(NewValidator(DefaultSchedule()))

	pickupDoc, err := spec.JsonSchema(&OrderRecord{})
	require.NoError(t, err)
	deliveryDoc, err := spec.JsonSchema(&OrderRecord{Delivery: ptr(true)})
	require.NoError(t, err)
	assert.NotEqual(t, pickupDoc, deliveryDoc)

	assert.Contains(t, spec.AllowedPaths(&OrderRecord{}), "/desired_time")
	assert.NotEmpty(t, spec.FieldGuide("/desired_time"))
	assert.Empty(t, spec.FieldGuide("/unknown"))

	assert.Len(t, spec.MissingFacts(&OrderRecord{}), 3)
	assert.Contains(t, spec.Summary(&OrderRecord{Pizzas: []string{"Margherita"}}), "Margherita")
}

func TestFormSpec_ValidateFacts(t *testing.T) {
	spec := NewFormSpec(NewValidator(DefaultSchedule()))

	assert.Empty(t, spec.ValidateFacts(&OrderRecord{Pizzas: []string{"Margherita"}, DesiredTime: "20:00"}))

	issues := spec.ValidateFacts(&OrderRecord{Pizzas: []string{}, DesiredTime: "21:00"})
	require.Len(t, issues, 2)
	assert.Equal(t, "/pizzas", issues[0].JSONPointer)
	assert.Equal(t, CodeEmptyList, issues[0].Code)
	assert.Equal(t, "/desired_time", issues[1].JSONPointer)
	assert.Equal(t, CodeSlotTaken, issues[1].Code)
	assert.Equal(t, "the desired time is already taken", issues[1].Description)
}

func TestScenarios(t *testing.T) {
	v := NewValidator(DefaultSchedule())

	tests := []struct {
		name       string
		rec        *OrderRecord
		schema     Schema
		wantErr    error
		incomplete bool
	}{
		{
			name:   "margherita pickup at 20:00",
			rec:    &OrderRecord{Pizzas: []string{"Margherita"}, Delivery: ptr(false), DesiredTime: "20:00"},
			schema: OrderSchema,
		},
		{
			name:       "pepperoni delivery at a taken slot without address",
			rec:        &OrderRecord{Pizzas: []string{"Pepperoni"}, Delivery: ptr(true), DesiredTime: "22:00"},
			schema:     DeliverySchema,
			wantErr:    ErrSlotTaken,
			incomplete: true,
		},
		{
			name:    "pepperoni delivery at a taken slot with address",
			rec:     &OrderRecord{Pizzas: []string{"Pepperoni"}, Delivery: ptr(true), DesiredTime: "22:00", Address: "1 Pizza Way"},
			schema:  DeliverySchema,
			wantErr: ErrSlotTaken,
		},
		{
			name:    "empty list pickup at 19:00",
			rec:     &OrderRecord{Pizzas: []string{}, Delivery: ptr(false), DesiredTime: "19:00"},
			schema:  OrderSchema,
			wantErr: ErrEmptyList,
		},
		{
			name:       "delivery without address",
			rec:        &OrderRecord{Pizzas: []string{"Margherita"}, Delivery: ptr(true), DesiredTime: "20:00"},
			schema:     DeliverySchema,
			incomplete: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := SelectSchema(tt.rec)
			assert.Equal(t, tt.schema, schema)
			assert.Equal(t, tt.incomplete, len(schema.Missing(tt.rec)) > 0)

			err := v.Validate(tt.rec)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
