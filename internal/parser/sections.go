package parser

import "strings"

// SectionKind 表示简历章节类型
type SectionKind string

const (
	// SectionEducation 教育经历章节
	SectionEducation SectionKind = "EDUCATION"
	// SectionExperience 工作经历章节
	SectionExperience SectionKind = "EXPERIENCE"
	// SectionSkills 技能章节
	SectionSkills SectionKind = "SKILLS"
	// SectionProjects 项目经历章节
	SectionProjects SectionKind = "PROJECTS"
)

// 各章节的触发关键词，小写子串匹配
// 注意："university" 等词同时出现在直接回答映射里，匹配顺序即语义，不要调整
var (
	educationKeywords = []string{
		"education", "academic", "university", "college", "school",
		"degree", "bachelor", "master", "phd", "doctorate",
	}
	experienceKeywords = []string{
		"experience", "work", "employment", "career",
		"professional", "job", "position", "role",
	}
	skillsKeywords = []string{
		"skills", "technical", "technologies", "programming",
		"languages", "tools", "frameworks",
	}
	contactKeywords = []string{
		"contact", "phone", "email", "address", "linkedin", "github",
	}
	projectKeywords = []string{"project"}
)

// sectionTriggers 每个章节类型的触发词集合
func sectionTriggers(kind SectionKind) []string {
	switch kind {
	case SectionEducation:
		return educationKeywords
	case SectionExperience:
		return experienceKeywords
	case SectionSkills:
		return skillsKeywords
	case SectionProjects:
		return projectKeywords
	default:
		return nil
	}
}

// sectionTerminators 终结该章节的其他章节关键词集合
// 每个章节类型各自独立定义，与原始抽取行为保持一致：
// 教育章节只被经历/技能词终结，经历章节只被教育/技能词终结，
// 技能章节被教育/经历词终结，项目章节被教育/经历/技能词终结
func sectionTerminators(kind SectionKind) []string {
	switch kind {
	case SectionEducation:
		return concat(experienceKeywords, skillsKeywords)
	case SectionExperience:
		return concat(educationKeywords, skillsKeywords)
	case SectionSkills:
		return concat(educationKeywords, experienceKeywords)
	case SectionProjects:
		return concat(educationKeywords, experienceKeywords, skillsKeywords)
	default:
		return nil
	}
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// containsAny 判断小写化后的行是否包含任意一个关键词
func containsAny(line string, keywords []string) bool {
	lower := strings.ToLower(line)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// SectionLines 扫描整份简历文本，收集属于指定章节的连续行
//
// 算法为单遍关键词边界扫描：命中触发词的行打开章节标志并被作为
// 标题消费（不收集）；标志打开期间命中任一终结词即停止整个扫描；
// 空行跳过但不终结章节；没有终结词时一直收集到文本末尾。
// 每个章节类型都对全文独立扫描，边界关键词冲突时不同章节可能对
// 边界位置得出不同结论，这是已接受的启发式局限
func SectionLines(text string, kind SectionKind) []string {
	triggers := sectionTriggers(kind)
	terminators := sectionTerminators(kind)

	var collected []string
	inSection := false
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if containsAny(line, triggers) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if containsAny(line, terminators) {
			break
		}
		if line != "" {
			collected = append(collected, line)
		}
	}
	return collected
}
