package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestExtractPersonalInfo 验证个人信息五个子项的提取
func TestExtractPersonalInfo(t *testing.T) {
	text := `John Smith
Software Engineer
555-123-4567
john.smith@example.com
linkedin.com/in/johnsmith | github.com/johnsmith
`
	info := ExtractPersonalInfo(text)
	assert.Equal(t, "John Smith", info.Name)
	assert.Equal(t, "john.smith@example.com", info.Email)
	assert.Equal(t, "555-123-4567", info.Phone)
	assert.Equal(t, "linkedin.com/in/johnsmith", info.LinkedIn)
	assert.Equal(t, "github.com/johnsmith", info.GitHub)
}

// TestExtractPersonalInfoNameSkipsContactLines 验证含数字或@的行不会被当作姓名
func TestExtractPersonalInfoNameSkipsContactLines(t *testing.T) {
	text := `555-123-4567
john@example.com
Phone: unavailable
Jane Doe
`
	info := ExtractPersonalInfo(text)
	assert.Equal(t, "Jane Doe", info.Name, "应跳过电话行、邮箱行和含 phone 的行")
}

// TestExtractPersonalInfoNameTooLong 验证超过4个词的行不作为姓名
func TestExtractPersonalInfoNameTooLong(t *testing.T) {
	text := "Senior Staff Software Engineering Professional\nOK\nBob Lee\n"
	info := ExtractPersonalInfo(text)
	assert.Equal(t, "Bob Lee", info.Name, "5个词的行和长度不足的行都应被跳过")
}

// TestExtractPersonalInfoPhonePatternOrder 验证电话格式按顺序尝试
func TestExtractPersonalInfoPhonePatternOrder(t *testing.T) {
	// 同时存在两种格式时，连字符格式优先
	text := "Jane Doe\n(555) 987-6543\n555-123-4567\n"
	info := ExtractPersonalInfo(text)
	assert.Equal(t, "555-123-4567", info.Phone)

	// 只有括号格式时命中第二个模式
	info = ExtractPersonalInfo("Jane Doe\n(555) 987-6543\n")
	assert.Equal(t, "(555) 987-6543", info.Phone)

	// 裸10位数字命中第三个模式
	info = ExtractPersonalInfo("Jane Doe\n5551234567\n")
	assert.Equal(t, "5551234567", info.Phone)
}

// TestExtractPersonalInfoMissingFields 验证缺失项保持零值
func TestExtractPersonalInfoMissingFields(t *testing.T) {
	info := ExtractPersonalInfo("Jane Doe\n")
	assert.Equal(t, "Jane Doe", info.Name)
	assert.Empty(t, info.Email)
	assert.Empty(t, info.Phone)
	assert.Empty(t, info.LinkedIn)
	assert.Empty(t, info.GitHub)
	assert.False(t, info.IsEmpty())
}

// TestExtractEducation 验证教育信息的单条目累积提取
func TestExtractEducation(t *testing.T) {
	lines := []string{
		"B.S. in Computer Science",
		"Stanford Institute of Technology",
		"Graduated 2018",
	}
	entries := ExtractEducation(lines)
	assert.Len(t, entries, 1)
	assert.Equal(t, "B.S. in Computer Science", entries[0].Degree)
	assert.Equal(t, "Stanford Institute of Technology", entries[0].Institution)
	assert.Equal(t, "2018", entries[0].Year)
}

// TestExtractEducationAccumulatorOverwrite 验证多个教育块只保留最后命中的字段
// 单累积条目会被后续行覆盖，整个章节最多产出一个条目
func TestExtractEducationAccumulatorOverwrite(t *testing.T) {
	lines := []string{
		"B.S. in Mathematics",
		"2014",
		"M.S. in Computer Science",
		"2016",
	}
	entries := ExtractEducation(lines)
	assert.Len(t, entries, 1, "整个章节最多产出一个条目")
	assert.Equal(t, "M.S. in Computer Science", entries[0].Degree)
	assert.Equal(t, "2016", entries[0].Year)
}

// TestExtractEducationEmpty 验证没有任何命中时返回空
func TestExtractEducationEmpty(t *testing.T) {
	assert.Nil(t, ExtractEducation([]string{"nothing relevant here"}))
	assert.Nil(t, ExtractEducation(nil))
}

// TestExtractWorkExperience 验证工作经历的提取
func TestExtractWorkExperience(t *testing.T) {
	lines := []string{
		"Senior Software Engineer",
		"Acme Corp",
		"2019 - 2022",
	}
	entries := ExtractWorkExperience(lines)
	assert.Len(t, entries, 1)
	assert.Equal(t, "Senior Software Engineer", entries[0].Position)
	assert.Equal(t, "Acme Corp", entries[0].Company)
	assert.Equal(t, "2019 - 2022", entries[0].Duration)
}

// TestExtractWorkExperiencePresent 验证 "2020 - present" 形式的时间段
func TestExtractWorkExperiencePresent(t *testing.T) {
	entries := ExtractWorkExperience([]string{"Data Analyst", "2020 - Present"})
	assert.Len(t, entries, 1)
	assert.Equal(t, "2020 - Present", entries[0].Duration)
}

// TestExtractSkills 验证技能按分隔符拆分、保序、不去重
func TestExtractSkills(t *testing.T) {
	lines := []string{
		"Go, Python; Docker | Kubernetes",
		"Go • PostgreSQL · Redis",
	}
	skills := ExtractSkills(lines)
	assert.Equal(t, []string{"Go", "Python", "Docker", "Kubernetes", "Go", "PostgreSQL", "Redis"}, skills,
		"应保留出现顺序且允许重复")
}

// TestExtractSkillsDropsShortFragments 验证长度不足2个字符的碎片被丢弃
func TestExtractSkillsDropsShortFragments(t *testing.T) {
	skills := ExtractSkills([]string{"C, Go, R, Rust"})
	assert.Equal(t, []string{"Go", "Rust"}, skills, "单字符技能词被丢弃是已知的启发式局限")
}

// TestExtractProjects 验证项目的名称/描述交替配对
func TestExtractProjects(t *testing.T) {
	lines := []string{
		"Chat Server",
		"A concurrent chat server",
		"CLI Tool",
		"A log analysis tool",
	}
	projects := ExtractProjects(lines)
	assert.Len(t, projects, 2)
	assert.Equal(t, "Chat Server", projects[0].Name)
	assert.Equal(t, "A concurrent chat server", projects[0].Description)
	assert.Equal(t, "CLI Tool", projects[1].Name)
	assert.Equal(t, "A log analysis tool", projects[1].Description)
}

// TestExtractProjectsDropsIncompleteTrailing 验证只有名称没有描述的末尾项目被丢弃
func TestExtractProjectsDropsIncompleteTrailing(t *testing.T) {
	projects := ExtractProjects([]string{"Chat Server", "A concurrent chat server", "Orphan Project"})
	assert.Len(t, projects, 1, "缺少描述行的末尾项目不应收录")
}
