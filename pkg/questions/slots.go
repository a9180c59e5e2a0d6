package questions

import (
	"fmt"

	"github.com/danicanod/banker-venezuela-sub000/pkg/browser"
)

// Slot is one fixed on-screen question position: a label element carrying
// the question text and its paired answer input.
type Slot struct {
	Label string
	Input string
}

// DefaultSlots are the portal's four fixed question positions.
var DefaultSlots = []Slot{
	{Label: "#lblPrimeraP", Input: "#txtPrimeraR"},
	{Label: "#lblSegundaP", Input: "#txtSegundaR"},
	{Label: "#lblTerceraP", Input: "#txtTerceraR"},
	{Label: "#lblCuartaP", Input: "#txtCuartaR"},
}

// SlotOutcome records what happened with one question slot.
type SlotOutcome struct {
	Slot     Slot
	Question string
	Answered bool
	Reason   string
}

// HandleResult is the aggregate outcome of answering the visible slots.
type HandleResult struct {
	Slots    []SlotOutcome
	Answered int
}

// Success reports whether at least one slot was answered. Partially
// answered pages count as success; the portal accepts a subset of answers
// and per-slot outcomes are reported so callers can log the gap.
func (h HandleResult) Success() bool {
	return h.Answered >= 1
}

const probeTimeout = browser.DefaultProbeTimeout

// Handle reads each visible question slot, resolves an answer and fills
// the paired input, verifying the filled value. A failure on one slot
// never blocks the remaining slots.
func (r *Resolver) Handle(target browser.Frame, slots []Slot) HandleResult {
	if len(slots) == 0 {
		slots = DefaultSlots
	}

	var result HandleResult
	for _, slot := range slots {
		outcome := r.handleSlot(target, slot)
		if outcome.Answered {
			result.Answered++
		}
		result.Slots = append(result.Slots, outcome)
	}

	r.log.Infof("security questions: answered %d of %d slots", result.Answered, len(slots))
	return result
}

func (r *Resolver) handleSlot(target browser.Frame, slot Slot) SlotOutcome {
	outcome := SlotOutcome{Slot: slot}

	err := target.WaitFor(slot.Label, browser.WaitOptions{State: "visible", Timeout: probeTimeout})
	if err != nil {
		outcome.Reason = "slot not present"
		return outcome
	}

	question, err := elementText(target, slot.Label)
	if err != nil || question == "" {
		outcome.Reason = "empty question label"
		r.log.Warnf("slot %s: could not read question label: %v", slot.Label, err)
		return outcome
	}
	outcome.Question = question

	answer, ok := r.Resolve(question)
	if !ok {
		outcome.Reason = "no keyword matched"
		r.log.Warnf("slot %s: no configured keyword matches %q", slot.Label, question)
		return outcome
	}

	if err := target.Fill(slot.Input, answer, probeTimeout); err != nil {
		outcome.Reason = "fill failed"
		r.log.Warnf("slot %s: fill failed: %v", slot.Input, err)
		return outcome
	}

	filled, err := inputValue(target, slot.Input)
	if err != nil || filled != answer {
		outcome.Reason = "verification failed"
		r.log.Warnf("slot %s: filled value %q does not match expected answer", slot.Input, filled)
		return outcome
	}

	outcome.Answered = true
	return outcome
}

func elementText(target browser.Frame, selector string) (string, error) {
	result, err := target.Evaluate(fmt.Sprintf(
		`() => { const el = document.querySelector(%q); return el ? el.textContent.trim() : ""; }`, selector))
	if err != nil {
		return "", err
	}
	text, _ := result.(string)
	return text, nil
}

func inputValue(target browser.Frame, selector string) (string, error) {
	result, err := target.Evaluate(fmt.Sprintf(
		`() => { const el = document.querySelector(%q); return el ? el.value : ""; }`, selector))
	if err != nil {
		return "", err
	}
	value, _ := result.(string)
	return value, nil
}
