package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathSetAllows(t *testing.T) {
	set := NewPathSet(AllPaths[testOrder]()...)

	tests := []struct {
		path string
		want bool
	}{
		{"/pizzas", true},
		{"/pizzas/-", true},
		{"/pizzas/3", true},
		{"/delivery", true},
		{"/extras/crust", true},
		{"/address", false},
		{"/pizzas/0/name", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Allows(tt.path))
		})
	}

	assert.True(t, NewPathSet().Allows("/anything"), "empty set allows everything")
}

func TestValidatePatchOperations(t *testing.T) {
	allowed := NewPathSet("/pizzas", "/pizzas/-", "/desired_time")

	assert.NoError(t, ValidatePatchOperations(nil, allowed))
	assert.NoError(t, ValidatePatchOperations([]Operation{
		{Op: OperationAdd, Path: "/pizzas/-", Value: "Margherita"},
		{Op: OperationReplace, Path: "/desired_time", Value: "20:00"},
	}, allowed))

	err := ValidatePatchOperations([]Operation{
		{Op: OperationReplace, Path: "/desired_time", Value: "20:00"},
		{Op: OperationReplace, Path: "/address", Value: "123 Main St"},
	}, allowed)
	assert.ErrorContains(t, err, "operation 1")
	assert.ErrorContains(t, err, `"/address"`)

	err = ValidatePatchOperations([]Operation{{Op: "move", Path: "/pizzas"}}, allowed)
	assert.ErrorContains(t, err, "unsupported op")
}

func TestAllPaths(t *testing.T) {
	assert.Equal(t, []string{
		"/pizzas",
		"/pizzas/-",
		"/delivery",
		"/desired_time",
		"/notes",
		"/extras",
		"/extras/*",
	}, AllPaths[testOrder]())
	assert.Equal(t, AllPaths[testOrder](), AllPaths[*testOrder]())
	assert.Empty(t, AllPaths[string]())
}

type embeddedOrder struct {
	testOrder
	Address string `json:"address"`
	hidden  string
	Skipped string `json:"-"`
}

func TestAllPaths_Embedded(t *testing.T) {
	paths := AllPaths[embeddedOrder]()
	assert.Contains(t, paths, "/pizzas")
	assert.Contains(t, paths, "/address")
	assert.NotContains(t, paths, "/hidden")
	assert.NotContains(t, paths, "/Skipped")
	assert.NotContains(t, paths, "/-")
}
