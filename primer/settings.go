package primer

import (
	"errors"
	"fmt"
)

// Settings controls the detailed primer design.
type Settings struct {
	// TargetTm is the desired melting temperature, °C.
	TargetTm float64 `mapstructure:"target-tm" json:"targetTm"`
	// MinLength and MaxLength bound the candidate primer lengths.
	MinLength int `mapstructure:"min-length" json:"minLength"`
	MaxLength int `mapstructure:"max-length" json:"maxLength"`
	// Margin is the fraction of the template excluded on each side
	// of the amplification window.
	Margin float64 `mapstructure:"margin" json:"margin"`
	// ReverseOffset is the distance between the window end and the
	// start of the reverse primer template.
	ReverseOffset int `mapstructure:"reverse-offset" json:"reverseOffset"`
	// MaxTmDifference is the largest acceptable difference between
	// primer melting temperatures.
	MaxTmDifference float64 `mapstructure:"max-tm-difference" json:"maxTmDifference"`
	// MinGC and MaxGC bound the acceptable GC content, %.
	MinGC float64 `mapstructure:"min-gc" json:"minGC"`
	MaxGC float64 `mapstructure:"max-gc" json:"maxGC"`
	// MaxAmplicon is the longest amplification length without a
	// warning.
	MaxAmplicon int `mapstructure:"max-amplicon" json:"maxAmplicon"`
	// MinTemplate is the shortest template accepted.
	MinTemplate int `mapstructure:"min-template" json:"minTemplate"`
}

// DefaultSettings returns the standard design parameters.
func DefaultSettings() Settings {
	return Settings{
		TargetTm:        60,
		MinLength:       18,
		MaxLength:       25,
		Margin:          0.1,
		ReverseOffset:   20,
		MaxTmDifference: 5,
		MinGC:           40,
		MaxGC:           60,
		MaxAmplicon:     3000,
		MinTemplate:     40,
	}
}

// Check returns an error if the settings can't be used for design.
func (s Settings) Check() error {
	switch {
	case s.MinLength < 1:
		return errors.New("minimum primer length should be positive")
	case s.MaxLength < s.MinLength:
		return fmt.Errorf("maximum primer length %d is less than minimum %d", s.MaxLength, s.MinLength)
	case s.Margin < 0 || s.Margin >= 0.5:
		return fmt.Errorf("margin %v is outside of [0, 0.5)", s.Margin)
	case s.ReverseOffset < 0:
		return errors.New("reverse offset should not be negative")
	case s.MinGC > s.MaxGC:
		return fmt.Errorf("minimum GC %v is greater than maximum %v", s.MinGC, s.MaxGC)
	case s.MinTemplate < 1:
		return errors.New("minimum template length should be positive")
	}
	return nil
}
