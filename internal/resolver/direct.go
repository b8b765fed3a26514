package resolver

import (
	"strings"

	"autofill-go/internal/types"
)

// DirectAnswer 尝试用简历中的既有事实直接回答问题
//
// 按固定顺序做小写子串匹配，第一个命中的映射生效。返回空字符串表示
// 没有可用的直接回答（没有命中映射，或命中了但简历里缺少对应事实），
// 调用方应继续走生成或默认值路径
func DirectAnswer(question string, doc *types.ResumeDocument) string {
	lower := strings.ToLower(question)

	if strings.Contains(lower, "name") || strings.Contains(lower, "full name") {
		return doc.PersonalInfo.Name
	}
	if strings.Contains(lower, "email") {
		return doc.PersonalInfo.Email
	}
	if strings.Contains(lower, "phone") {
		return doc.PersonalInfo.Phone
	}
	if strings.Contains(lower, "linkedin") {
		return doc.PersonalInfo.LinkedIn
	}
	if strings.Contains(lower, "github") {
		return doc.PersonalInfo.GitHub
	}

	// FirstEducation/FirstExperience 在没有条目时返回零值，
	// 对应字段为空串，正好落入"无直接回答"的语义
	if strings.Contains(lower, "university") || strings.Contains(lower, "school") {
		return doc.FirstEducation().Institution
	}
	if strings.Contains(lower, "degree") {
		return doc.FirstEducation().Degree
	}

	if strings.Contains(lower, "company") || strings.Contains(lower, "employer") {
		return doc.FirstExperience().Company
	}
	if strings.Contains(lower, "position") || strings.Contains(lower, "title") {
		return doc.FirstExperience().Position
	}

	if strings.Contains(lower, "skill") {
		return strings.Join(doc.TopSkills(5), ", ")
	}

	return ""
}
