// Package prompt turns a user request into the single prompt string sent to
// the completion service.
package prompt

import (
	"errors"
	"fmt"
)

// Action selects which prompt template is used.
type Action string

const (
	ActionCorrect   Action = "Correct"
	ActionTranslate Action = "Translate"
	ActionSimplify  Action = "Simplify"
)

// Level is a CEFR proficiency level used by the Simplify action.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
)

var (
	ErrMissingText     = errors.New("text is required")
	ErrMissingAction   = errors.New("action is required")
	ErrUnknownAction   = errors.New("unknown action")
	ErrMissingLanguage = errors.New("target language is required for Translate")
	ErrMissingLevel    = errors.New("target level is required for Simplify")
)

// Request is one submission. Only the target field matching Action is read.
type Request struct {
	Text           string `json:"text"`
	Action         Action `json:"action"`
	TargetLanguage string `json:"targetLanguage"`
	TargetLevel    Level  `json:"targetLevel"`
}

// Actions lists the recognized actions in display order.
func Actions() []Action {
	return []Action{ActionCorrect, ActionTranslate, ActionSimplify}
}

// Levels lists the recognized proficiency levels in display order.
func Levels() []Level {
	return []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1}
}

func (a Action) Valid() bool {
	switch a {
	case ActionCorrect, ActionTranslate, ActionSimplify:
		return true
	}
	return false
}

func (l Level) Valid() bool {
	switch l {
	case LevelA1, LevelA2, LevelB1, LevelB2, LevelC1:
		return true
	}
	return false
}

// Complete reports the first field a user still has to fill in before the
// request is worth sending. Build does not depend on it.
func (r Request) Complete() error {
	if r.Text == "" {
		return ErrMissingText
	}
	if r.Action == "" {
		return ErrMissingAction
	}
	switch r.Action {
	case ActionTranslate:
		if r.TargetLanguage == "" {
			return ErrMissingLanguage
		}
	case ActionSimplify:
		if r.TargetLevel == "" {
			return ErrMissingLevel
		}
	case ActionCorrect:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, r.Action)
	}
	return nil
}

// Build returns the prompt for req. An unrecognized action yields an empty
// prompt, which callers send as-is.
func Build(req Request) string {
	switch req.Action {
	case ActionCorrect:
		return fmt.Sprintf(`You are a language teacher. Highlight errors and improvements that can be made to this text: "%s". Respond with 3 sections: "errors", "improvements" and "revised text".`, req.Text)
	case ActionSimplify:
		return fmt.Sprintf("Simplify this text for a %s level: %s", req.TargetLevel, req.Text)
	case ActionTranslate:
		return fmt.Sprintf(`Translate this text to %s: "%s"`, req.TargetLanguage, req.Text)
	}
	return ""
}
