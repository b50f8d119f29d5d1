package pizza

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyList  = errors.New("empty list")
	ErrSlotTaken  = errors.New("slot taken")
	ErrIncomplete = errors.New("order incomplete")
)

const (
	CodeEmptyList = "empty_list"
	CodeSlotTaken = "slot_taken"
)

// FieldError ties a validation failure to the JSON name of the offending field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Code is the machine-readable name of the failure.
func (e *FieldError) Code() string {
	switch {
	case errors.Is(e.Err, ErrEmptyList):
		return CodeEmptyList
	case errors.Is(e.Err, ErrSlotTaken):
		return CodeSlotTaken
	}
	return ""
}

// Validator checks the fields of an OrderRecord that have been provided against the
// record's validate tags and a reservation table.
type Validator struct {
	schedule Schedule
	validate *validator.Validate
}

func NewValidator(schedule Schedule) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("slot_free", func(fl validator.FieldLevel) bool {
		return !schedule.Taken(fl.Field().String())
	})
	return &Validator{schedule: schedule, validate: v}
}

func (v *Validator) Schedule() Schedule {
	return v.schedule
}

// Check returns one FieldError per failing field, in declaration order.
func (v *Validator) Check(rec *OrderRecord) []*FieldError {
	if rec == nil {
		return nil
	}
	err := v.validate.Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*FieldError{{Field: "", Err: err}}
	}
	out := make([]*FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &FieldError{Field: fe.Field(), Err: ruleError(fe)})
	}
	return out
}

func ruleError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "min":
		return ErrEmptyList
	case "slot_free":
		return ErrSlotTaken
	}
	return fmt.Errorf("failed %q rule", fe.Tag())
}

// Validate joins the failures of Check; use errors.Is with ErrEmptyList or ErrSlotTaken.
func (v *Validator) Validate(rec *OrderRecord) error {
	fieldErrs := v.Check(rec)
	if len(fieldErrs) == 0 {
		return nil
	}
	errs := make([]error, len(fieldErrs))
	for i, fe := range fieldErrs {
		errs[i] = fe
	}
	return errors.Join(errs...)
}

// Finalize turns a complete, valid record into the Order variant chosen by its delivery flag.
func (v *Validator) Finalize(rec *OrderRecord) (Order, error) {
	rec = orEmpty(rec)
	if missing := SelectSchema(rec).Missing(rec); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = f.DisplayName
		}
		return nil, fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(names, ", "))
	}
	if err := v.Validate(rec); err != nil {
		return nil, err
	}
	return newOrder(rec), nil
}
