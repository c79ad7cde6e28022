// Package pattern loads haptic patterns from YAML and plays them through a
// dispatcher. A pattern is an ordered list of pulses with a wait after each.
//
//	name: ripple
//	repeat: 2
//	steps:
//	  - {hand: both, location: thumb, strength: 0.8, duration: 0.2, wait: 100ms}
//	  - {hand: both, location: index, strength: 0.8, duration: 0.2, wait: 0.1}
package pattern

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/haptics/internal/haptics"
)

// maxFileSize bounds pattern files read from disk.
const maxFileSize = 1 << 20

var ErrEmptyPattern = errors.New("pattern has no steps")

// Duration accepts either a Go duration string ("150ms") or a number of
// seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: wait must be a scalar", value.Line)
	}
	if secs, err := strconv.ParseFloat(value.Value, 64); err == nil {
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid wait %q: %w", value.Line, value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Step is one pulse as written in the file.
type Step struct {
	Hand     string   `yaml:"hand"`
	Location string   `yaml:"location"`
	Strength float32  `yaml:"strength"`
	Duration float32  `yaml:"duration"`
	Wait     Duration `yaml:"wait"`
}

// Pattern is a parsed and validated pattern file.
type Pattern struct {
	Name   string `yaml:"name"`
	Repeat int    `yaml:"repeat"`
	Steps  []Step `yaml:"steps"`

	compiled []compiledStep
}

// compiledStep is a validated step ready for playback.
type compiledStep struct {
	req  haptics.FeedbackRequest
	wait time.Duration
}

// Parse decodes and validates a YAML pattern.
func Parse(data []byte) (*Pattern, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Pattern
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse pattern YAML: %w", err)
	}
	if err := p.compile(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads a pattern file. Only .yaml and .yml files are accepted.
func Load(path string) (*Pattern, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("pattern file must have .yaml or .yml extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat pattern file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("pattern file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	if p.Name == "" {
		p.Name = filepath.Base(cleanPath)
	}
	return p, nil
}

func (p *Pattern) compile() error {
	if len(p.Steps) == 0 {
		return ErrEmptyPattern
	}
	if p.Repeat < 0 {
		return fmt.Errorf("repeat must not be negative, got %d", p.Repeat)
	}
	if p.Repeat == 0 {
		p.Repeat = 1
	}

	compiled := make([]compiledStep, 0, len(p.Steps))
	for i, s := range p.Steps {
		hand, err := haptics.ParseHand(s.Hand)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		loc, err := haptics.ParseLocation(s.Location)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if s.Duration < 0 {
			return fmt.Errorf("step %d: duration must not be negative", i+1)
		}
		if s.Wait < 0 {
			return fmt.Errorf("step %d: wait must not be negative", i+1)
		}
		compiled = append(compiled, compiledStep{
			req: haptics.FeedbackRequest{
				Hand:     hand,
				Location: loc,
				Strength: s.Strength,
				Duration: s.Duration,
			},
			wait: time.Duration(s.Wait),
		})
	}
	p.compiled = compiled
	return nil
}

// ensureCompiled validates a Pattern that was built in code rather than
// through Parse or Load.
func (p *Pattern) ensureCompiled() error {
	if p.compiled != nil {
		return nil
	}
	return p.compile()
}

// Requests returns the feedback request for each compiled step.
func (p *Pattern) Requests() []haptics.FeedbackRequest {
	out := make([]haptics.FeedbackRequest, 0, len(p.compiled))
	for _, s := range p.compiled {
		out = append(out, s.req)
	}
	return out
}

// Length is the wall time of one pass through the compiled pattern.
func (p *Pattern) Length() time.Duration {
	var total time.Duration
	for _, s := range p.compiled {
		total += s.wait
	}
	return total
}
