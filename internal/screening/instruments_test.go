package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmokaya/mindscreen/internal/domain"
)

func TestInstrumentShapes(t *testing.T) {
	phq := ByTool(domain.ToolPHQ9)
	require.NotNil(t, phq)
	assert.Len(t, phq.Questions, 9)
	assert.Equal(t, "phq9_9", phq.SelfHarmQuestionID)
	assert.Equal(t, 27, phq.MaxScore())

	gad := ByTool(domain.ToolGAD7)
	require.NotNil(t, gad)
	assert.Len(t, gad.Questions, 7)
	assert.Empty(t, gad.SelfHarmQuestionID)
	assert.Equal(t, 21, gad.MaxScore())

	ghq := ByTool(domain.ToolGHQ12)
	require.NotNil(t, ghq)
	assert.Len(t, ghq.Questions, 12)
	assert.Equal(t, 36, ghq.MaxScore())

	assert.Nil(t, ByTool(domain.ToolNone))
}

func TestSeverityBandEdges(t *testing.T) {
	tests := []struct {
		tool  domain.ScreeningTool
		total int
		want  domain.Severity
	}{
		{domain.ToolPHQ9, 0, domain.SeverityMinimal},
		{domain.ToolPHQ9, 4, domain.SeverityMinimal},
		{domain.ToolPHQ9, 5, domain.SeverityMild},
		{domain.ToolPHQ9, 9, domain.SeverityMild},
		{domain.ToolPHQ9, 10, domain.SeverityModerate},
		{domain.ToolPHQ9, 14, domain.SeverityModerate},
		{domain.ToolPHQ9, 15, domain.SeverityModeratelySevere},
		{domain.ToolPHQ9, 19, domain.SeverityModeratelySevere},
		{domain.ToolPHQ9, 20, domain.SeveritySevere},
		{domain.ToolPHQ9, 27, domain.SeveritySevere},

		{domain.ToolGAD7, 4, domain.SeverityMinimal},
		{domain.ToolGAD7, 5, domain.SeverityMild},
		{domain.ToolGAD7, 9, domain.SeverityMild},
		{domain.ToolGAD7, 10, domain.SeverityModerate},
		{domain.ToolGAD7, 14, domain.SeverityModerate},
		{domain.ToolGAD7, 15, domain.SeveritySevere},
		{domain.ToolGAD7, 21, domain.SeveritySevere},

		{domain.ToolGHQ12, 11, domain.SeverityMinimal},
		{domain.ToolGHQ12, 12, domain.SeverityMild},
		{domain.ToolGHQ12, 15, domain.SeverityMild},
		{domain.ToolGHQ12, 16, domain.SeverityModerate},
		{domain.ToolGHQ12, 20, domain.SeverityModerate},
		{domain.ToolGHQ12, 21, domain.SeveritySevere},
		{domain.ToolGHQ12, 36, domain.SeveritySevere},
	}

	for _, tt := range tests {
		got := ByTool(tt.tool).Severity(tt.total)
		assert.Equalf(t, tt.want, got, "%s total %d", tt.tool, tt.total)
	}
}

func TestSelectTool(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    domain.ScreeningTool
	}{
		{name: "Depression Dominant", message: "I feel sad, down and hopeless", want: domain.ToolPHQ9},
		{name: "Anxiety Dominant", message: "so anxious and full of worry and panic", want: domain.ToolGAD7},
		{name: "Tie Defaults To General", message: "sad but also anxious", want: domain.ToolGHQ12},
		{name: "No Keywords", message: "I can't really put it into words", want: domain.ToolGHQ12},
		{name: "Case Insensitive", message: "DEPRESSED and EMPTY", want: domain.ToolPHQ9},
		{name: "Empty Message", message: "", want: domain.ToolGHQ12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectTool(tt.message))
		})
	}
}

func TestQuestionIDsAreOrdered(t *testing.T) {
	for _, tool := range []domain.ScreeningTool{domain.ToolPHQ9, domain.ToolGAD7, domain.ToolGHQ12} {
		inst := ByTool(tool)
		seen := make(map[string]bool)
		for _, q := range inst.Questions {
			assert.NotEmpty(t, q.ID)
			assert.NotEmpty(t, q.Text)
			assert.Falsef(t, seen[q.ID], "duplicate id %s", q.ID)
			seen[q.ID] = true
		}
	}
}
