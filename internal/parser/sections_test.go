package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSectionLinesEducation 验证教育章节的边界识别
func TestSectionLinesEducation(t *testing.T) {
	text := `John Smith
john@example.com

Education
B.S. in Computer Science
Stanford Institute of Technology
2018

Experience
Software Engineer at Acme Inc
`
	lines := SectionLines(text, SectionEducation)
	assert.Equal(t, []string{
		"B.S. in Computer Science",
		"Stanford Institute of Technology",
		"2018",
	}, lines, "教育章节应在 Experience 标题处终止，且跳过空行")
}

// TestSectionLinesMidSectionTriggerConsumed 验证章节内部再次命中触发词的行同样被消费
// "Bachelor of Science" 含触发词 bachelor，会被当作标题行而不是内容行
func TestSectionLinesMidSectionTriggerConsumed(t *testing.T) {
	text := `Education
Bachelor of Science
Stanford University
2018
`
	lines := SectionLines(text, SectionEducation)
	assert.Equal(t, []string{"2018"}, lines, "含触发词的内容行会被消费，只剩年份行")
}

// TestSectionLinesTriggerLineConsumed 验证触发行本身不计入章节内容
func TestSectionLinesTriggerLineConsumed(t *testing.T) {
	text := "Skills\nGo, Python\n"
	lines := SectionLines(text, SectionSkills)
	assert.Equal(t, []string{"Go, Python"}, lines, "标题行应被消费而不是作为内容返回")
}

// TestSectionLinesRunsToEnd 验证没有终止行时章节一直收集到文末
func TestSectionLinesRunsToEnd(t *testing.T) {
	text := `Work Experience
Senior Developer
Acme Corp
2019 - 2022
Led a team of five`
	lines := SectionLines(text, SectionExperience)
	assert.Len(t, lines, 4, "无终止标题时应收集到文本末尾")
	assert.Equal(t, "Led a team of five", lines[3])
}

// TestSectionLinesTerminatorStopsScan 验证终止行出现后整个扫描结束
// 即使后文还有同类章节的标题，也不会再次进入收集状态
func TestSectionLinesTerminatorStopsScan(t *testing.T) {
	text := `Education
MIT
Skills
Go
Education
Harvard
`
	lines := SectionLines(text, SectionEducation)
	assert.Equal(t, []string{"MIT"}, lines, "遇到 Skills 终止行后不应再收集后文的 Education 块")
}

// TestSectionLinesCaseInsensitive 验证标题匹配不区分大小写且允许子串
func TestSectionLinesCaseInsensitive(t *testing.T) {
	text := "TECHNICAL SKILLS:\nKubernetes\n"
	lines := SectionLines(text, SectionSkills)
	assert.Equal(t, []string{"Kubernetes"}, lines)
}

// TestSectionLinesMissingSection 验证文本中不存在章节标题时返回空
func TestSectionLinesMissingSection(t *testing.T) {
	text := "John Smith\njohn@example.com\n"
	assert.Empty(t, SectionLines(text, SectionProjects), "没有项目标题时应返回空切片")
}

// TestSectionLinesProjectsNotTerminatedByContact 验证项目章节只被教育、经历、技能标题终止
func TestSectionLinesProjectsNotTerminatedByContact(t *testing.T) {
	text := `Projects
Chat Server
A concurrent chat server in Go
Skills
Go
`
	lines := SectionLines(text, SectionProjects)
	assert.Equal(t, []string{"Chat Server", "A concurrent chat server in Go"}, lines)
}
