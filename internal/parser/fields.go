package parser

import (
	"regexp"
	"strings"
	"unicode"

	"autofill-go/internal/types"
)

// 个人信息的识别模式，对全文而非单个章节匹配
var (
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
	githubPattern   = regexp.MustCompile(`(?i)github\.com/[\w-]+`)

	// 电话格式按顺序尝试，第一个命中即停止
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b`),
		regexp.MustCompile(`\(\d{3}\)\s*\d{3}-\d{4}`),
		regexp.MustCompile(`\b\d{10}\b`),
	}
)

// 教育经历的识别模式
var (
	degreePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(bachelor|master|phd|doctorate|bs|ms|ba|ma|mba|degree)`),
		regexp.MustCompile(`(?i)(b\.s\.|m\.s\.|b\.a\.|m\.a\.|ph\.d\.)`),
	}
	yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// 工作经历的识别模式
var (
	positionWords   = []string{"engineer", "developer", "manager", "analyst", "specialist", "coordinator"}
	companyMarkers  = []string{"inc", "corp", "llc", "ltd"}
	durationPattern = regexp.MustCompile(`(?i)\b(19|20)\d{2}\s*-\s*(19|20)\d{2}|\b(19|20)\d{2}\s*-\s*present`)
)

// 技能行的分隔符
var skillSplitPattern = regexp.MustCompile(`[,;|•·\n]`)

// ExtractPersonalInfo 从简历全文提取个人基本信息
// 五个子项互相独立，任何一项没有命中就保持零值
func ExtractPersonalInfo(text string) types.PersonalInfo {
	var info types.PersonalInfo

	// 姓名通常出现在最前面：取前5个非空行中第一个满足
	// 长度>2、不超过4个词、不含数字、不含@、不含"phone"的行
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
		if len(lines) == 5 {
			break
		}
	}
	for _, line := range lines {
		if len(line) > 2 && len(strings.Fields(line)) <= 4 && !containsDigit(line) {
			if !strings.Contains(line, "@") && !strings.Contains(strings.ToLower(line), "phone") {
				info.Name = line
				break
			}
		}
	}

	if m := emailPattern.FindString(text); m != "" {
		info.Email = m
	}

	for _, p := range phonePatterns {
		if m := p.FindString(text); m != "" {
			info.Phone = m
			break
		}
	}

	if m := linkedinPattern.FindString(text); m != "" {
		info.LinkedIn = m
	}
	if m := githubPattern.FindString(text); m != "" {
		info.GitHub = m
	}

	return info
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// ExtractEducation 从教育章节的行中提取教育经历
//
// 每行独立测试学位、院校、年份三种模式，命中即覆盖同一个累积条目
// 的对应字段；整个章节只产出最多一个条目（循环结束后非空才收录）。
// 多个教育块会互相覆盖只留最后一个，这是对原始行为的刻意保留，
// 按块切分的状态机是备选改进而非默认行为
func ExtractEducation(lines []string) []types.EducationEntry {
	var entry types.EducationEntry
	for _, line := range lines {
		for _, p := range degreePatterns {
			if p.MatchString(line) {
				entry.Degree = line
				break
			}
		}

		lower := strings.ToLower(line)
		if strings.Contains(lower, "university") || strings.Contains(lower, "college") || strings.Contains(lower, "institute") {
			entry.Institution = line
		}

		if m := yearPattern.FindString(line); m != "" {
			entry.Year = m
		}
	}

	if entry.IsEmpty() {
		return nil
	}
	return []types.EducationEntry{entry}
}

// ExtractWorkExperience 从经历章节的行中提取工作经历
// 与教育提取同构：单个累积条目，职位词命中时整行作为职位，
// 公司后缀词命中时整行作为公司名
func ExtractWorkExperience(lines []string) []types.ExperienceEntry {
	var entry types.ExperienceEntry
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, w := range positionWords {
			if strings.Contains(lower, w) {
				entry.Position = line
				break
			}
		}

		for _, m := range companyMarkers {
			if strings.Contains(lower, m) {
				entry.Company = line
				break
			}
		}

		if m := durationPattern.FindString(line); m != "" {
			entry.Duration = m
		}
	}

	if entry.IsEmpty() {
		return nil
	}
	return []types.ExperienceEntry{entry}
}

// ExtractSkills 把技能章节的每一行按常见分隔符拆成技能词
// 保留出现顺序，不去重；长度不足2个字符的碎片丢弃
func ExtractSkills(lines []string) []string {
	var skills []string
	for _, line := range lines {
		for _, item := range skillSplitPattern.Split(line, -1) {
			item = strings.TrimSpace(item)
			if len(item) > 1 {
				skills = append(skills, item)
			}
		}
	}
	return skills
}

// ExtractProjects 从项目章节的行中提取项目列表
// 行按 名称/描述 交替配对；只有名称、缺少后续描述行的项目不收录
func ExtractProjects(lines []string) []types.ProjectEntry {
	var projects []types.ProjectEntry
	var current types.ProjectEntry
	for _, line := range lines {
		if current.Name == "" {
			current.Name = line
			continue
		}
		current.Description = line
		projects = append(projects, current)
		current = types.ProjectEntry{}
	}
	return projects
}
