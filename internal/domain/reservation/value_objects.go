package reservation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidFireType       = errors.New("invalid fire type")
	ErrTemperatureOutOfRange = errors.New("temperature out of range")
	ErrProgramOutOfRange     = errors.New("program out of range")
	ErrNoteTooLong           = errors.New("note too long")
)

const (
	MinTemperature = 100
	MaxTemperature = 1300
	MinProgram     = 0
	MaxProgram     = 99
	MaxNoteLength  = 25
)

type FireType string

const (
	FireTypeBiscuit FireType = "Biscuit"
	FireTypeGlaze   FireType = "Gladbrand"
	FireTypeOther   FireType = "Overig"
)

const DefaultFireType = FireTypeBiscuit

func NewFireType(s string) (FireType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultFireType, nil
	}
	switch ft := FireType(s); ft {
	case FireTypeBiscuit, FireTypeGlaze, FireTypeOther:
		return ft, nil
	default:
		return "", ErrInvalidFireType
	}
}

func (f FireType) String() string { return string(f) }

// Details are the user-editable firing parameters of a booking.
type Details struct {
	fireType    FireType
	temperature *int
	program     *int
	note        *string
}

func NewDetails(fireType string, temperature, program *int, note *string) (Details, error) {
	ft, err := NewFireType(fireType)
	if err != nil {
		return Details{}, err
	}
	if temperature != nil && (*temperature < MinTemperature || *temperature > MaxTemperature) {
		return Details{}, ErrTemperatureOutOfRange
	}
	if program != nil && (*program < MinProgram || *program > MaxProgram) {
		return Details{}, ErrProgramOutOfRange
	}
	var n *string
	if note != nil {
		trimmed := strings.TrimSpace(*note)
		if utf8.RuneCountInString(trimmed) > MaxNoteLength {
			return Details{}, ErrNoteTooLong
		}
		if trimmed != "" {
			n = &trimmed
		}
	}
	return Details{fireType: ft, temperature: copyInt(temperature), program: copyInt(program), note: n}, nil
}

// ReconstructDetails skips validation for rows already persisted.
func ReconstructDetails(fireType FireType, temperature, program *int, note *string) Details {
	return Details{fireType: fireType, temperature: temperature, program: program, note: note}
}

func (d Details) FireType() FireType { return d.fireType }
func (d Details) Temperature() *int  { return d.temperature }
func (d Details) Program() *int      { return d.program }
func (d Details) Note() *string      { return d.note }

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
