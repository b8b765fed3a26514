package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autofill-go/internal/types"
)

// TestResumeSnapshotRoundTrip 验证结构化快照经 datatypes.JSON 存取后字段不变
// 填表路径依赖从 StructuredDataJSON 反序列化出与解析时相同的文档
func TestResumeSnapshotRoundTrip(t *testing.T) {
	original := types.ResumeDocument{
		PersonalInfo: types.PersonalInfo{
			Name:   "Jane Smith",
			Email:  "jane.smith@example.com",
			Phone:  "(555) 123-4567",
			GitHub: "github.com/janesmith",
			// LinkedIn 缺失，序列化时应省略该键
		},
		Education: []types.EducationEntry{
			{Degree: "B.S. Computer Science", Institution: "Stanford University", Year: "2019"},
		},
		WorkExperience: []types.ExperienceEntry{
			{Position: "Software Engineer", Company: "Acme Corp", Duration: "2019 - Present"},
		},
		Skills:   []string{"Go", "Python", "Docker"},
		Projects: []types.ProjectEntry{{Name: "Autofiller", Description: "Form filling service"}},
		RawText:  "Jane Smith\njane.smith@example.com",
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	submission := ResumeSubmission{StructuredDataJSON: StringToJSON(string(data))}

	var restored types.ResumeDocument
	require.NoError(t, json.Unmarshal(submission.StructuredDataJSON, &restored))
	assert.Equal(t, original, restored)

	// 缺失的可选字段不应出现在持久化的JSON里
	assert.NotContains(t, string(submission.StructuredDataJSON), "linkedin")
}

// TestSliceToJSON 验证字符串切片与JSON列的互转
func TestSliceToJSON(t *testing.T) {
	col, err := SliceToJSON([]string{"Go", "SQL"})
	require.NoError(t, err)

	var back []string
	require.NoError(t, json.Unmarshal(col, &back))
	assert.Equal(t, []string{"Go", "SQL"}, back)
}
