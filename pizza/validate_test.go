package pizza

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestValidator_Pizzas(t *testing.T) {
	v := NewValidator(DefaultSchedule())

	assert.NoError(t, v.Validate(&OrderRecord{Pizzas: []string{"Margherita"}}))
	assert.NoError(t, v.Validate(&OrderRecord{}), "absent pizzas are missing, not invalid")

	err := v.Validate(&OrderRecord{Pizzas: []string{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyList)
	assert.NotErrorIs(t, err, ErrSlotTaken)
}

func TestValidator_DesiredTime(t *testing.T) {
	v := NewValidator(DefaultSchedule())

	tests := []struct {
		time  string
		taken bool
	}{
		{"21:00", true},
		{"22:00", true},
		{"20:00", false},
		{"19:00", false},
		{"9:00", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.time, func(t *testing.T) {
			err := v.Validate(&OrderRecord{DesiredTime: tt.time})
			if tt.taken {
				assert.ErrorIs(t, err, ErrSlotTaken)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_CheckFieldNames(t *testing.T) {
	v := NewValidator(DefaultSchedule())

	fieldErrs := v.Check(&OrderRecord{Pizzas: []string{}, DesiredTime: "21:00"})
	require.Len(t, fieldErrs, 2)
	assert.Equal(t, "pizzas", fieldErrs[0].Field)
	assert.Equal(t, CodeEmptyList, fieldErrs[0].Code())
	assert.Equal(t, "desired_time", fieldErrs[1].Field)
	assert.Equal(t, CodeSlotTaken, fieldErrs[1].Code())
	assert.Equal(t, "desired_time: slot taken", fieldErrs[1].Error())

	var fe *FieldError
	require.True(t, errors.As(v.Validate(&OrderRecord{DesiredTime: "22:00"}), &fe))
	assert.Equal(t, "desired_time", fe.Field)

	assert.Nil(t, v.Check(nil))
}

func TestValidator_CustomSchedule(t *testing.T) {
	v := NewValidator(DefaultSchedule().With(Reservation{DesiredTime: "18:30"}))
	assert.ErrorIs(t, v.Validate(&OrderRecord{DesiredTime: "18:30"}), ErrSlotTaken)
	assert.ErrorIs(t, v.Validate(&OrderRecord{DesiredTime: "21:00"}), ErrSlotTaken)
}

func TestValidator_Finalize(t *testing.T) {
	v := NewValidator(DefaultSchedule())

	order, err := v.Finalize(&OrderRecord{
		Pizzas:      []string{"Margherita"},
		Delivery:    ptr(false),
		DesiredTime: "20:00",
		Address:     "ignored for pickup",
	})
	require.NoError(t, err)
	pickup, ok := order.(Pickup)
	require.True(t, ok)
	assert.Equal(t, "pickup", pickup.Kind())
	assert.Equal(t, []string{"Margherita"}, pickup.Pizzas)

	order, err = v.Finalize(&OrderRecord{
		Pizzas:      []string{"Pepperoni"},
		Delivery:    ptr(true),
		DesiredTime: "20:30",
		Address:     " 1 Pizza Way ",
	})
	require.NoError(t, err)
	delivery, ok := order.(Delivery)
	require.True(t, ok)
	assert.Equal(t, "1 Pizza Way", delivery.Address)
	assert.Equal(t, "20:30", delivery.OrderDetails().DesiredTime)

	_, err = v.Finalize(&OrderRecord{Pizzas: []string{"Pepperoni"}, Delivery: ptr(true), DesiredTime: "20:30"})
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.ErrorContains(t, err, "address")

	_, err = v.Finalize(&OrderRecord{Pizzas: []string{"Pepperoni"}, Delivery: ptr(false), DesiredTime: "22:00"})
	assert.ErrorIs(t, err, ErrSlotTaken)
}
