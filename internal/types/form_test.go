package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormFieldQuestion(t *testing.T) {
	tests := []struct {
		name  string
		field FormField
		want  string
	}{
		{
			name:  "label优先于其他属性",
			field: FormField{Label: "Years of Experience", Placeholder: "years", Name: "yoe", ID: "exp"},
			want:  "Years of Experience",
		},
		{
			name:  "label为空时使用placeholder",
			field: FormField{Placeholder: "Your email address", Name: "email_addr"},
			want:  "Your email address",
		},
		{
			name:  "name中的下划线还原为空格",
			field: FormField{Name: "first_name"},
			want:  "first name",
		},
		{
			name:  "id中的连字符还原为空格",
			field: FormField{ID: "phone-number"},
			want:  "phone number",
		},
		{
			name:  "纯空白的label被跳过",
			field: FormField{Label: "   ", Name: "cover_letter"},
			want:  "cover letter",
		},
		{
			name:  "全部为空时返回空串",
			field: FormField{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Question())
		})
	}
}

func TestTopSkills(t *testing.T) {
	doc := &ResumeDocument{Skills: []string{"Go", "Python", "SQL"}}

	// 保持文本中的出现顺序
	assert.Equal(t, []string{"Go", "Python"}, doc.TopSkills(2))
	// n超过总数时返回全部
	assert.Equal(t, []string{"Go", "Python", "SQL"}, doc.TopSkills(10))
	assert.Nil(t, doc.TopSkills(0))
	assert.Nil(t, (&ResumeDocument{}).TopSkills(5))
}

func TestFirstEntries(t *testing.T) {
	doc := &ResumeDocument{
		Education:      []EducationEntry{{Degree: "B.S. Computer Science", Institution: "MIT"}},
		WorkExperience: []ExperienceEntry{{Position: "Engineer", Company: "Acme"}},
	}
	assert.Equal(t, "MIT", doc.FirstEducation().Institution)
	assert.Equal(t, "Acme", doc.FirstExperience().Company)

	empty := &ResumeDocument{}
	assert.True(t, empty.FirstEducation().IsEmpty())
	assert.True(t, empty.FirstExperience().IsEmpty())
}
