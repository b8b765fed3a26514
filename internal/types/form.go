package types

import "strings"

// FormField 由外部表单探测组件上报的单个输入元素
// 核心逻辑只读取这些字段，从不修改
type FormField struct {
	Type        string `json:"type"`        // input的type属性，或标签名(textarea/select)
	Label       string `json:"label"`       // 关联label的文本
	Placeholder string `json:"placeholder"` // 占位提示文本
	Name        string `json:"name"`        // name属性
	ID          string `json:"id"`          // id属性
	Value       string `json:"value"`       // 当前已有值
	Required    bool   `json:"required"`    // 是否必填
	Visible     bool   `json:"visible"`     // 是否可见(不可见字段跳过)
	Selector    string `json:"selector"`    // 回填时定位元素用的CSS选择器
}

// Question 从表单元素推断该字段在问什么
// 优先级：label > placeholder > name > id，name/id中的下划线和连字符还原为空格
func (f *FormField) Question() string {
	if q := strings.TrimSpace(f.Label); q != "" {
		return q
	}
	if q := strings.TrimSpace(f.Placeholder); q != "" {
		return q
	}
	if q := strings.TrimSpace(normalizeAttr(f.Name)); q != "" {
		return q
	}
	return strings.TrimSpace(normalizeAttr(f.ID))
}

func normalizeAttr(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return strings.ReplaceAll(s, "-", " ")
}

// ResolutionSource 字段取值的来源
type ResolutionSource string

const (
	// SourceDirect 简历事实直接命中
	SourceDirect ResolutionSource = "DIRECT"
	// SourceGenerated 由LLM生成
	SourceGenerated ResolutionSource = "GENERATED"
	// SourceFallback LLM失败后使用的模板回答
	SourceFallback ResolutionSource = "FALLBACK"
	// SourceDefault 按字段类型给出的默认值
	SourceDefault ResolutionSource = "DEFAULT"
	// SourceSkipped 无值可填，跳过该字段
	SourceSkipped ResolutionSource = "SKIPPED"
)

// FieldResolution 单个字段的解析结果
type FieldResolution struct {
	Selector string           `json:"selector"`
	Question string           `json:"question"`
	Value    string           `json:"value"`
	Source   ResolutionSource `json:"source"`
}

// FillReport 一次表单填写的汇总结果
// Errors 按字段记录，单个字段出错不会中断整个循环
type FillReport struct {
	TotalFields  int               `json:"total_fields"`
	FilledFields int               `json:"filled_fields"`
	Resolutions  []FieldResolution `json:"resolutions"`
	Errors       []string          `json:"errors"`
	Success      bool              `json:"success"`
}
