package resolver

import "strings"

// 开放式问题的识别关键词，小写子串匹配
var abstractKeywords = []string{
	"why", "describe", "explain", "tell us", "what motivates", "your greatest",
	"how would you", "what interests you", "your goals", "your passion",
	"cover letter", "personal statement", "objective", "summary",
}

// IsAbstractQuestion 判断一个问题是否属于需要生成式回答的开放问题
// 三个条件任一成立即视为开放问题：textarea 类型字段、问题文本超过
// 50 个字符、问题中出现任一开放式关键词
func IsAbstractQuestion(question string, fieldType string) bool {
	if fieldType == "textarea" || len(question) > 50 {
		return true
	}

	lower := strings.ToLower(question)
	for _, kw := range abstractKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
