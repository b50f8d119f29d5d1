package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/pizzaform/dialogue"
	"github.com/tbxark/pizzaform/intent"
	"github.com/tbxark/pizzaform/patch"
	"github.com/tbxark/pizzaform/types"
)

var ErrFormFinished = errors.New("agent: form already submitted or cancelled")

type FormFlow[T any] struct {
	spec              FormSpec[T]
	manager           FormManager[T]
	patchGenerator    patch.Generator[T]
	dialogueGenerator dialogue.Generator[T]
	intentRecognizer  intent.Recognizer[T]
}

func NewFormFlow[T any](
	spec FormSpec[T],
	manager FormManager[T],
	patchGen patch.Generator[T],
	dialogGen dialogue.Generator[T],
	recognizer intent.Recognizer[T],
) (*FormFlow[T], error) {
	switch {
	case spec == nil:
		return nil, errors.New("form spec is required")
	case manager == nil:
		return nil, errors.New("form manager is required")
	case patchGen == nil:
		return nil, errors.New("patch generator is required")
	case dialogGen == nil:
		return nil, errors.New("dialogue generator is required")
	case recognizer == nil:
		return nil, errors.New("intent recognizer is required")
	}
	return &FormFlow[T]{
		spec:              spec,
		manager:           manager,
		patchGenerator:    patchGen,
		dialogueGenerator: dialogGen,
		intentRecognizer:  recognizer,
	}, nil
}

type flowOptions[T any] struct {
	dialogueOptions []dialogue.GeneratorOption[T]
	cancelKeywords  []string
}

type FlowOption[T any] func(*flowOptions[T])

// WithDialogueOptions configures the model-backed dialogue generator.
func WithDialogueOptions[T any](opts ...dialogue.GeneratorOption[T]) FlowOption[T] {
	return func(o *flowOptions[T]) {
		o.dialogueOptions = append(o.dialogueOptions, opts...)
	}
}

// WithCancelKeywords adds phrases the offline recognizer treats as cancel.
func WithCancelKeywords[T any](keywords ...string) FlowOption[T] {
	return func(o *flowOptions[T]) {
		o.cancelKeywords = append(o.cancelKeywords, keywords...)
	}
}

// NewToolBasedFormFlow wires model-backed components, each falling back to its local
// counterpart when the model call fails.
func NewToolBasedFormFlow[T any](
	spec FormSpec[T],
	manager FormManager[T],
	chatModel model.ToolCallingChatModel,
	opts ...FlowOption[T],
) (*FormFlow[T], error) {
	var options flowOptions[T]
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	recognizer, err := intent.NewToolBasedIntentRecognizer[T](chatModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool-based intent recognizer: %w", err)
	}
	patchGen, err := patch.NewToolBasedPatchGenerator[T](chatModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool-based patch generator: %w", err)
	}
	dialogueGen := dialogue.NewFailbackDialogueGenerator[T](
		dialogue.NewToolBasedDialogueGenerator[T](chatModel, options.dialogueOptions...),
		&dialogue.LocalDialogueGenerator[T]{Summary: spec.Summary},
	)
	return NewFormFlow[T](
		spec,
		manager,
		patchGen,
		dialogueGen,
		intent.NewFailbackRecognizer[T](recognizer, intent.NewLocalIntentRecognizer[T](options.cancelKeywords...)),
	)
}

func (a *FormFlow[T]) Invoke(ctx context.Context, input *Request[T]) (*Response[T], error) {
	ctx = callbacks.EnsureRunInfo(ctx, "FormFlow", "Agent")
	ctx = callbacks.OnStart(ctx, input)

	response, err := a.runInternal(ctx, input)
	if err != nil {
		callbacks.OnError(ctx, err)
		return nil, err
	}

	callbacks.OnEnd(ctx, response)
	return response, nil
}

// Prefill copies the non-zero fields of initial into the state, as if the user had typed them.
func (a *FormFlow[T]) Prefill(state *State[T], initial T) error {
	ops, err := patch.GeneratePatchesFromInitial(state.FormState, initial)
	if err != nil {
		return fmt.Errorf("failed to generate patches from initial values: %w", err)
	}
	if err := patch.ValidatePatchOperations(ops, patch.NewPathSet(a.spec.AllowedPaths(state.FormState)...)); err != nil {
		return fmt.Errorf("initial values rejected: %w", err)
	}
	next, err := patch.ApplyRFC6902(state.FormState, ops)
	if err != nil {
		return fmt.Errorf("failed to apply initial values: %w", err)
	}
	state.FormState = next
	return nil
}

func (a *FormFlow[T]) runInternal(ctx context.Context, input *Request[T]) (*Response[T], error) {
	if input == nil || input.State == nil {
		return nil, errors.New("request state is required")
	}
	state := input.State
	if state.Phase == "" {
		state.Phase = types.PhaseCollecting
	}
	if state.Phase.Terminal() {
		return nil, ErrFormFinished
	}

	toolRequest := &types.ToolRequest[T]{
		State: state.FormState,
		Phase: state.Phase,
		MessagePair: types.MessagePair{
			Question: state.LatestQuestion,
			Answer:   input.UserInput,
		},
		MissingFields:    a.spec.MissingFacts(state.FormState),
		ValidationErrors: a.spec.ValidateFacts(state.FormState),
	}

	slog.Debug("Recognizing intent", "phase", state.Phase)
	in, err := a.intentRecognizer.RecognizeIntent(ctx, toolRequest)
	if err != nil {
		return a.handleError(ctx, fmt.Errorf("failed to recognize intent: %w", err), state)
	}
	slog.Debug("Recognized intent", "intent", in)

	metadata := map[string]string{"intent": string(in)}
	switch in {
	case intent.Edit:
		if err := a.applyEdit(ctx, state, input.UserInput); err != nil {
			return a.handleError(ctx, err, state)
		}
	case intent.Cancel:
		if err := a.manager.Cancel(ctx, state.FormState); err != nil {
			return a.handleError(ctx, fmt.Errorf("failed to cancel form: %w", err), state)
		}
		state.Phase = types.PhaseCancelled
	case intent.Confirm:
		if state.Phase != types.PhaseConfirming {
			metadata["confirm"] = "not_ready"
			break
		}
		if issues := a.spec.ValidateFacts(state.FormState); len(issues) > 0 {
			metadata["confirm"] = "invalid"
			state.Phase = types.PhaseCollecting
			break
		}
		if err := a.manager.Submit(ctx, state.FormState); err != nil {
			return a.handleError(ctx, fmt.Errorf("failed to submit form: %w", err), state)
		}
		state.Phase = types.PhaseConfirmed
	case intent.DoNothing:
	}

	toolRequest.State = state.FormState
	toolRequest.MissingFields = a.spec.MissingFacts(state.FormState)
	toolRequest.ValidationErrors = a.spec.ValidateFacts(state.FormState)
	if !state.Phase.Terminal() {
		if len(toolRequest.MissingFields) == 0 && len(toolRequest.ValidationErrors) == 0 {
			state.Phase = types.PhaseConfirming
		} else {
			state.Phase = types.PhaseCollecting
		}
	}
	toolRequest.Phase = state.Phase

	slog.Debug("Generating dialogue", "phase", state.Phase, "missing", len(toolRequest.MissingFields), "issues", len(toolRequest.ValidationErrors))
	question, err := a.dialogueGenerator.GenerateDialogue(ctx, toolRequest)
	if err != nil {
		return a.handleError(ctx, fmt.Errorf("failed to generate dialogue: %w", err), state)
	}
	state.LatestQuestion = question

	return &Response[T]{
		Message:  question,
		State:    state,
		Metadata: metadata,
	}, nil
}

func (a *FormFlow[T]) applyEdit(ctx context.Context, state *State[T], userInput string) error {
	stateSchema, err := a.spec.JsonSchema(state.FormState)
	if err != nil {
		return fmt.Errorf("failed to render form schema: %w", err)
	}
	missing := a.spec.MissingFacts(state.FormState)
	guidance := make(map[string]string)
	for _, field := range missing {
		if guide := a.spec.FieldGuide(field.JSONPointer); guide != "" {
			guidance[field.JSONPointer] = guide
		}
	}
	allowed := a.spec.AllowedPaths(state.FormState)

	slog.Debug("Requesting patch generation")
	updateArgs, err := a.patchGenerator.GeneratePatch(ctx, &patch.Request[T]{
		CurrentState:      state.FormState,
		StateSchema:       stateSchema,
		AllowedPaths:      allowed,
		MissingFields:     missing,
		FieldGuidance:     guidance,
		AssistantQuestion: state.LatestQuestion,
		UserAnswer:        userInput,
	})
	if err != nil {
		return fmt.Errorf("failed to generate patch: %w", err)
	}
	if updateArgs == nil || len(updateArgs.Ops) == 0 {
		return nil
	}
	if err := patch.ValidatePatchOperations(updateArgs.Ops, patch.NewPathSet(allowed...)); err != nil {
		return fmt.Errorf("failed to apply patch: %w", err)
	}

	slog.Debug("Applying patch", "ops", updateArgs.Ops)
	next, err := patch.ApplyRFC6902(state.FormState, updateArgs.Ops)
	if err != nil {
		return fmt.Errorf("failed to apply patch: %w", err)
	}
	state.FormState = next
	slog.Debug("Applied patch", "phase", state.Phase, "to_state", state.FormState)
	return nil
}

// handleError turns a failed turn into an apology. The run still ends with OnEnd; the error
// travels in metadata.
func (a *FormFlow[T]) handleError(ctx context.Context, err error, state *State[T]) (*Response[T], error) {
	slog.Warn("Form turn failed", "err", err)
	return &Response[T]{
		Message: fmt.Sprintf("Sorry, something went wrong while processing your input: %s", err.Error()),
		State:   state,
		Metadata: map[string]string{
			"error": err.Error(),
		},
	}, nil
}
