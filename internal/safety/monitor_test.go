package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmokaya/mindscreen/internal/domain"
)

func TestClassifyCritical(t *testing.T) {
	monitor := NewMonitor()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "Direct Trigger",
			input: "I want to kill myself",
			want:  []string{"kill myself"},
		},
		{
			name:  "Case Insensitive",
			input: "Sometimes I think about SUICIDE",
			want:  []string{"suicide"},
		},
		{
			name:  "Embedded In Sentence",
			input: "lately it feels like everyone would be better off dead without me around",
			want:  []string{"better off dead"},
		},
		{
			name:  "Multiple Triggers In List Order",
			input: "i am suicidal and want to die",
			want:  []string{"suicidal", "want to die"},
		},
		{
			name:  "Harm To Others",
			input: "some days i want to hurt others",
			want:  []string{"hurt others"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := monitor.Classify(tt.input)

			assert.Equal(t, domain.CrisisCritical, verdict.Level)
			assert.Equal(t, tt.want, verdict.Triggered)
			assert.True(t, verdict.RequiresOverride)
			assert.NotEmpty(t, verdict.Message)
		})
	}
}

func TestClassifyWarning(t *testing.T) {
	monitor := NewMonitor()

	verdict := monitor.Classify("Everything feels hopeless and I am overwhelmed")

	assert.Equal(t, domain.CrisisWarning, verdict.Level)
	assert.Equal(t, []string{"hopeless", "overwhelmed"}, verdict.Triggered)
	assert.False(t, verdict.RequiresOverride)
	assert.NotEmpty(t, verdict.Message)
}

func TestClassifyCriticalWinsOverWarning(t *testing.T) {
	monitor := NewMonitor()

	// "hopeless" is a warning indicator, "end it all" is critical.
	verdict := monitor.Classify("i feel hopeless and want to end it all")

	assert.Equal(t, domain.CrisisCritical, verdict.Level)
	assert.Equal(t, []string{"end it all"}, verdict.Triggered)
}

func TestClassifyNone(t *testing.T) {
	monitor := NewMonitor()

	tests := []struct {
		name  string
		input string
	}{
		{name: "Neutral Text", input: "I had a pretty good week, slept well"},
		{name: "Empty Input", input: ""},
		{name: "Whitespace Only", input: "   \t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := monitor.Classify(tt.input)

			assert.Equal(t, domain.CrisisNone, verdict.Level)
			assert.Empty(t, verdict.Triggered)
			assert.False(t, verdict.RequiresOverride)
		})
	}
}

func TestClassifyExtraTriggers(t *testing.T) {
	monitor := NewMonitor(WithExtraTriggers([]string{"unalive"}))

	verdict := monitor.Classify("i want to unalive myself")

	assert.Equal(t, domain.CrisisCritical, verdict.Level)
	assert.Contains(t, verdict.Triggered, "unalive")
}

func TestClassifyIsDeterministic(t *testing.T) {
	monitor := NewMonitor()

	first := monitor.Classify("i feel worthless and trapped")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, monitor.Classify("i feel worthless and trapped"))
	}
}

func TestClassifyIdeationAnswer(t *testing.T) {
	monitor := NewMonitor()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "Short Negative", input: "no", want: false},
		{name: "Not At All", input: "not at all", want: false},
		{name: "Never", input: "never", want: false},
		{name: "Plain Yes", input: "yes", want: true},
		{name: "Frequency Sometimes", input: "sometimes", want: true},
		{name: "Nearly Every Day", input: "nearly every day", want: true},
		{name: "Crossed My Mind", input: "it has crossed my mind once or twice", want: true},
		{name: "Thoughts Of Death", input: "i keep having thoughts of death lately", want: true},
		{name: "Been Thinking", input: "i have been thinking about it", want: true},
		{name: "Ambiguous Defaults Negative", input: "i am not sure how to answer that question honestly", want: false},
		{name: "Empty Input", input: "", want: false},
		{name: "Padded Upper Positive", input: "  SOMETIMES  ", want: true},
		{name: "Padded Mixed Negative", input: "\tNever\n", want: false},
		{name: "Shouted Yes", input: "YES", want: true},
		{name: "Whitespace Only", input: " \t \n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, monitor.ClassifyIdeationAnswer(tt.input))
		})
	}
}

func TestClassifyIdeationNegationBound(t *testing.T) {
	// A long answer containing a negation word no longer qualifies for
	// the short-answer override, so positive patterns apply.
	monitor := NewMonitor()
	long := "no, but honestly i have been thinking about it sometimes"
	assert.True(t, monitor.ClassifyIdeationAnswer(long))

	// Raising the bound makes the same answer read as negative.
	relaxed := NewMonitor(WithNegationMaxLen(100))
	assert.False(t, relaxed.ClassifyIdeationAnswer(long))
}
