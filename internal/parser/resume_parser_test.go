package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResumeText = `John Smith
Software Developer
john.smith@example.com
555-123-4567
linkedin.com/in/johnsmith

Education
B.S. in Computer Science
Stanford Institute of Technology
2018

Experience
Senior Software Engineer
Acme Corp
2019 - 2022

Projects
Chat Server
A concurrent chat server in Go

Skills
Go, Python, Docker, Kubernetes, PostgreSQL, Redis
`

// TestRuleResumeParserParse 验证完整的文本到结构化文档的解析流程
func TestRuleResumeParserParse(t *testing.T) {
	p := NewRuleResumeParser()
	doc, err := p.Parse(context.Background(), sampleResumeText)
	require.NoError(t, err)
	require.NotNil(t, doc)

	// 个人信息
	assert.Equal(t, "John Smith", doc.PersonalInfo.Name)
	assert.Equal(t, "john.smith@example.com", doc.PersonalInfo.Email)
	assert.Equal(t, "555-123-4567", doc.PersonalInfo.Phone)
	assert.Equal(t, "linkedin.com/in/johnsmith", doc.PersonalInfo.LinkedIn)

	// 教育：B.S. 行与学院行被收集（不含触发词），年份命中
	require.Len(t, doc.Education, 1)
	assert.Equal(t, "B.S. in Computer Science", doc.Education[0].Degree)
	assert.Equal(t, "Stanford Institute of Technology", doc.Education[0].Institution)
	assert.Equal(t, "2018", doc.Education[0].Year)

	// 工作经历
	require.Len(t, doc.WorkExperience, 1)
	assert.Equal(t, "Senior Software Engineer", doc.WorkExperience[0].Position)
	assert.Equal(t, "Acme Corp", doc.WorkExperience[0].Company)
	assert.Equal(t, "2019 - 2022", doc.WorkExperience[0].Duration)

	// 技能
	assert.Equal(t, []string{"Go", "Python", "Docker", "Kubernetes", "PostgreSQL", "Redis"}, doc.Skills)

	// 项目
	require.Len(t, doc.Projects, 1)
	assert.Equal(t, "Chat Server", doc.Projects[0].Name)
	assert.Equal(t, "A concurrent chat server in Go", doc.Projects[0].Description)

	// 原始文本必须原样保留
	assert.Equal(t, sampleResumeText, doc.RawText)
}

// TestRuleResumeParserParseEmpty 验证空白输入返回空文档而不是错误
func TestRuleResumeParserParseEmpty(t *testing.T) {
	p := NewRuleResumeParser()

	for _, text := range []string{"", "   ", "\n\n\t\n"} {
		doc, err := p.Parse(context.Background(), text)
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.True(t, doc.PersonalInfo.IsEmpty())
		assert.Empty(t, doc.Education)
		assert.Empty(t, doc.Skills)
		assert.Equal(t, text, doc.RawText)
	}
}

// TestRuleResumeParserDeterministic 验证同一输入产出一致结果
func TestRuleResumeParserDeterministic(t *testing.T) {
	p := NewRuleResumeParser()
	first, err := p.Parse(context.Background(), sampleResumeText)
	require.NoError(t, err)
	second, err := p.Parse(context.Background(), sampleResumeText)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
