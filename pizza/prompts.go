package pizza

import (
	"fmt"
	"strings"

	"github.com/tbxark/pizzaform/dialogue"
	"github.com/tbxark/pizzaform/types"
)

var _ dialogue.PromptBuilder[*OrderRecord] = Prompts{}

// Prompts renders the four lifecycle prompts. Each one is an instruction for the chat model,
// which writes the reply the customer actually sees.
type Prompts struct{}

func (Prompts) SubmitPrompt(rec *OrderRecord) string {
	return fmt.Sprintf(
		"The pizza order is complete. The details are: %s. "+
			"Respond with something like: 'Alright, your pizza is officially on its way.'",
		describe(rec),
	)
}

func (Prompts) CancelPrompt() string {
	return "The customer is not hungry anymore. Respond with a short and bothered answer."
}

func (Prompts) ConfirmPrompt(rec *OrderRecord) string {
	return "Summarize the collected details briefly and sarcastically:\n" +
		baseMessage(rec, nil, nil) + "\n" +
		"Say something like, 'So, this is what we've got ... Do you want to confirm?'"
}

func (Prompts) IncompletePrompt(rec *OrderRecord, missing, issues []types.FieldInfo) string {
	return "The form is missing some details:\n" +
		baseMessage(rec, missing, issues) + "\n" +
		"Based on what's still needed, craft a sarcastic yet professional nudge. Very short since it is a busy restaurant. " +
		"For example, if 'address' is missing, say: 'I'm good, but I'm not a mind reader. Where should I deliver this masterpiece?'"
}

// baseMessage lists what has been collected, what is still missing and what is invalid.
func baseMessage(rec *OrderRecord, missing, issues []types.FieldInfo) string {
	rec = orEmpty(rec)
	var sb strings.Builder

	sb.WriteString("## Collected\n")
	collected := collectedFields(rec)
	if len(collected) == 0 {
		sb.WriteString("- nothing yet\n")
	}
	for _, line := range collected {
		sb.WriteString("- ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if len(missing) > 0 {
		sb.WriteString("## Missing\n")
		for _, f := range missing {
			fmt.Fprintf(&sb, "- %s\n", fieldName(f))
		}
	}
	if len(issues) > 0 {
		sb.WriteString("## Invalid\n")
		for _, f := range issues {
			fmt.Fprintf(&sb, "- %s: %s\n", fieldName(f), f.Description)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func collectedFields(rec *OrderRecord) []string {
	var lines []string
	if rec.Pizzas != nil {
		lines = append(lines, "pizzas: "+pizzaList(rec.Pizzas))
	}
	if rec.Delivery != nil {
		lines = append(lines, fmt.Sprintf("delivery: %t", *rec.Delivery))
	}
	if rec.CustomerName != "" {
		lines = append(lines, "customer_name: "+rec.CustomerName)
	}
	if rec.DesiredTime != "" {
		lines = append(lines, "desired_time: "+rec.DesiredTime)
	}
	if rec.Notes != "" {
		lines = append(lines, "notes: "+rec.Notes)
	}
	if rec.WantsDelivery() && rec.Address != "" {
		lines = append(lines, "address: "+rec.Address)
	}
	return lines
}

func fieldName(f types.FieldInfo) string {
	return strings.TrimPrefix(f.JSONPointer, "/")
}
