package resolver

import (
	"fmt"
	"strings"

	"autofill-go/internal/types"
)

// 模板桶按声明顺序匹配，第一个在问题中出现的关键词生效
var fallbackBuckets = []string{"why", "strength", "experience", "motivation", "goal"}

const genericFallback = "I believe my background and experience make me a strong candidate for this position, and I am excited about the opportunity to contribute to your team."

// FallbackAnswer 在生成失败时给出基于模板的保底回答
// 模板只引用技能列表，保证离线可用
func FallbackAnswer(question string, doc *types.ResumeDocument) string {
	templates := map[string]string{
		"why": fmt.Sprintf("Based on my background in %s, I am excited about this opportunity to contribute my skills and experience.",
			strings.Join(doc.TopSkills(3), ", ")),
		"strength": fmt.Sprintf("My key strengths include %s, which I have developed through my professional experience.",
			strings.Join(doc.TopSkills(5), ", ")),
		"experience": fmt.Sprintf("I have experience in %s and have worked in roles that involved diverse responsibilities.",
			strings.Join(doc.TopSkills(3), ", ")),
		"motivation": "I am motivated by challenging opportunities that allow me to apply my skills and contribute to meaningful projects.",
		"goal":       "My career goal is to continue growing professionally while making meaningful contributions to innovative projects.",
	}

	lower := strings.ToLower(question)
	for _, keyword := range fallbackBuckets {
		if strings.Contains(lower, keyword) {
			return templates[keyword]
		}
	}

	return genericFallback
}

// DefaultValue 当直接回答和生成路径都不适用时，按字段类型给默认值
func DefaultValue(field types.FormField, doc *types.ResumeDocument) string {
	switch strings.ToLower(field.Type) {
	case "email":
		return doc.PersonalInfo.Email
	case "tel":
		return doc.PersonalInfo.Phone
	}

	if strings.Contains(strings.ToLower(field.Name), "name") {
		return doc.PersonalInfo.Name
	}

	return ""
}
