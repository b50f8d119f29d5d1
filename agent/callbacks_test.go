package agent

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/callbacks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/pizzaform/patch"
)

type callbackCounts struct {
	start, end, err int
}

func withCountingCallbacks(counts *callbackCounts) context.Context {
	handler := callbacks.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
			counts.start++
			return ctx
		}).
		OnEndFn(func(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
			counts.end++
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
			counts.err++
			return ctx
		}).
		Build()
	return callbacks.InitCallbacks(context.Background(), &callbacks.RunInfo{Name: "FormFlow", Component: "Agent"}, handler)
}

func TestFormFlow_Callbacks(t *testing.T) {
	patches := &scriptedPatches{ops: map[string][]patch.Operation{
		"title lunch": {{Op: patch.OperationReplace, Path: "/title", Value: "lunch"}},
	}}

	tests := []struct {
		name    string
		req     *Request[*booking]
		want    callbackCounts
		wantErr bool
	}{
		{
			name: "successful turn",
			req:  &Request[*booking]{State: newBookingState(), UserInput: "title lunch"},
			want: callbackCounts{start: 1, end: 1},
		},
		{
			name: "turn answered with an apology",
			req:  &Request[*booking]{State: newBookingState(), UserInput: "unscripted answer"},
			want: callbackCounts{start: 1, end: 1},
		},
		{
			name:    "invalid request",
			req:     &Request[*booking]{},
			want:    callbackCounts{start: 1, err: 1},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := newBookingFlow(t, &recordingManager{}, patches)
			var counts callbackCounts

			resp, err := flow.Invoke(withCountingCallbacks(&counts), tt.req)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
			}
			assert.Equal(t, tt.want, counts)
		})
	}
}

func TestFormFlow_FailedTurnCarriesErrorInMetadata(t *testing.T) {
	flow := newBookingFlow(t, &recordingManager{}, &scriptedPatches{})
	var counts callbackCounts

	resp, err := flow.Invoke(withCountingCallbacks(&counts), &Request[*booking]{State: newBookingState(), UserInput: "anything"})
	require.NoError(t, err)
	assert.Contains(t, resp.Metadata["error"], "failed to generate patch")
	assert.Zero(t, counts.err)
	assert.Equal(t, 1, counts.end)
}
