package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunChat_Offline(t *testing.T) {
	offline, customer = true, "Ada"
	t.Cleanup(func() { offline, customer = false, "" })

	input := strings.Join([]string{
		"pizza: Margherita; delivery: no; time: 21:00",
		"time: 20:00",
		"confirm",
		"pizza: Pepperoni",
		"not hungry anymore",
	}, "\n")
	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), defaultConfig(), strings.NewReader(input), &out))

	text := out.String()
	assert.Contains(t, text, "already taken")
	assert.Contains(t, text, "customer name: Ada")
	assert.Contains(t, text, "Do you want to confirm?")
	assert.Equal(t, 1, strings.Count(text, "[kitchen] order"))
	assert.Contains(t, text, "The form has been cancelled.")
	assert.Contains(t, text, "Bye.")
}

func TestRunChat_RequiresModel(t *testing.T) {
	err := runChat(context.Background(), defaultConfig(), strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorIs(t, err, errModelNotConfigured)
}
