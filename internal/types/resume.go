package types

// PersonalInfo 简历中提取的个人基本信息
// 任意字段都可能缺失，缺失时序列化为省略该键
type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// IsEmpty 判断是否所有字段都缺失
func (p PersonalInfo) IsEmpty() bool {
	return p == PersonalInfo{}
}

// EducationEntry 一条教育经历
type EducationEntry struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

// IsEmpty 判断该条目是否没有任何有效字段
func (e EducationEntry) IsEmpty() bool {
	return e == EducationEntry{}
}

// ExperienceEntry 一条工作经历
type ExperienceEntry struct {
	Position string `json:"position,omitempty"`
	Company  string `json:"company,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// IsEmpty 判断该条目是否没有任何有效字段
func (e ExperienceEntry) IsEmpty() bool {
	return e == ExperienceEntry{}
}

// ProjectEntry 一条项目经历
// 只有同时具备名称和描述时才会被收录
type ProjectEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ResumeDocument 解析一份简历文件得到的结构化结果
// 构造完成后不再修改；RawText 保留原始全文用于追溯和调试
type ResumeDocument struct {
	PersonalInfo   PersonalInfo      `json:"personal_info"`
	Education      []EducationEntry  `json:"education"`
	WorkExperience []ExperienceEntry `json:"work_experience"`
	Skills         []string          `json:"skills"`
	Projects       []ProjectEntry    `json:"projects"`
	RawText        string            `json:"raw_text"`
}

// TopSkills 返回前n个技能，技能顺序即文本中的出现顺序
func (d *ResumeDocument) TopSkills(n int) []string {
	if n <= 0 || len(d.Skills) == 0 {
		return nil
	}
	if n > len(d.Skills) {
		n = len(d.Skills)
	}
	return d.Skills[:n]
}

// FirstEducation 返回第一条教育经历，没有时返回零值
func (d *ResumeDocument) FirstEducation() EducationEntry {
	if len(d.Education) == 0 {
		return EducationEntry{}
	}
	return d.Education[0]
}

// FirstExperience 返回第一条工作经历，没有时返回零值
func (d *ResumeDocument) FirstExperience() ExperienceEntry {
	if len(d.WorkExperience) == 0 {
		return ExperienceEntry{}
	}
	return d.WorkExperience[0]
}
