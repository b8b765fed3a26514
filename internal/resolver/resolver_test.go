package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autofill-go/internal/types"
)

// MockLLMModel 模拟的聊天模型，用于测试生成器
type MockLLMModel struct {
	// 模拟响应
	mockResponse string
	// 用于测试的错误
	Err error
	// 用于测试的调用次数
	CallCount int
	// 记录最近一次收到的消息
	lastMessages []*schema.Message
}

// Generate 实现model.ChatModel接口
func (m *MockLLMModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	m.CallCount++
	m.lastMessages = messages
	if m.Err != nil {
		return nil, m.Err
	}
	return &schema.Message{
		Role:    "assistant",
		Content: m.mockResponse,
	}, nil
}

// Stream 实现model.ChatModel接口
func (m *MockLLMModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	// 测试中不需要流式响应
	return nil, nil
}

// WithTools 实现 model.ToolCallingChatModel 接口
func (m *MockLLMModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

// sampleDoc 构造一份测试用的结构化简历
func sampleDoc() *types.ResumeDocument {
	return &types.ResumeDocument{
		PersonalInfo: types.PersonalInfo{
			Name:     "John Smith",
			Email:    "john@example.com",
			Phone:    "555-123-4567",
			LinkedIn: "linkedin.com/in/johnsmith",
			GitHub:   "github.com/johnsmith",
		},
		Education: []types.EducationEntry{
			{Degree: "B.S. in Computer Science", Institution: "Stanford Institute of Technology", Year: "2018"},
		},
		WorkExperience: []types.ExperienceEntry{
			{Position: "Senior Software Engineer", Company: "Acme Corp", Duration: "2019 - 2022"},
		},
		Skills:  []string{"Go", "Python", "Docker", "Kubernetes", "PostgreSQL", "Redis", "Kafka"},
		RawText: "raw",
	}
}

// TestIsAbstractQuestion 验证开放问题的三个判定条件
func TestIsAbstractQuestion(t *testing.T) {
	// textarea 类型无条件视为开放问题
	assert.True(t, IsAbstractQuestion("Comments", "textarea"))

	// 超过50个字符的问题视为开放问题
	long := strings.Repeat("a", 51)
	assert.True(t, IsAbstractQuestion(long, "text"))

	// 关键词命中
	assert.True(t, IsAbstractQuestion("Why do you want this job?", "text"))
	assert.True(t, IsAbstractQuestion("Tell us about yourself", "text"))
	assert.True(t, IsAbstractQuestion("Cover Letter", "text"))

	// 普通短问题不是开放问题
	assert.False(t, IsAbstractQuestion("Email", "text"))
	assert.False(t, IsAbstractQuestion("Full Name", "text"))
}

// TestDirectAnswer 验证直接回答的映射与优先级
func TestDirectAnswer(t *testing.T) {
	doc := sampleDoc()

	assert.Equal(t, "John Smith", DirectAnswer("Full Name", doc))
	assert.Equal(t, "john@example.com", DirectAnswer("Email Address", doc))
	assert.Equal(t, "555-123-4567", DirectAnswer("Phone Number", doc))
	assert.Equal(t, "linkedin.com/in/johnsmith", DirectAnswer("LinkedIn Profile", doc))
	assert.Equal(t, "github.com/johnsmith", DirectAnswer("GitHub URL", doc))
	assert.Equal(t, "Stanford Institute of Technology", DirectAnswer("University", doc))
	assert.Equal(t, "B.S. in Computer Science", DirectAnswer("Degree", doc))
	assert.Equal(t, "Acme Corp", DirectAnswer("Current Employer", doc))
	assert.Equal(t, "Senior Software Engineer", DirectAnswer("Job Title", doc))
	assert.Equal(t, "Go, Python, Docker, Kubernetes, PostgreSQL", DirectAnswer("Key Skills", doc))

	// 无命中返回空串
	assert.Empty(t, DirectAnswer("Favorite Color", doc))
}

// TestDirectAnswerMissingFacts 验证命中映射但简历缺少事实时返回空
func TestDirectAnswerMissingFacts(t *testing.T) {
	doc := &types.ResumeDocument{}
	assert.Empty(t, DirectAnswer("University", doc), "没有教育经历时应返回空")
	assert.Empty(t, DirectAnswer("Highest degree", doc))
	assert.Empty(t, DirectAnswer("Employer", doc), "没有工作经历时应返回空")
	assert.Empty(t, DirectAnswer("Job title", doc))
	assert.Empty(t, DirectAnswer("Skills", doc))
}

// TestFallbackAnswerBuckets 验证模板桶按顺序匹配
func TestFallbackAnswerBuckets(t *testing.T) {
	doc := sampleDoc()

	answer := FallbackAnswer("Why are you interested?", doc)
	assert.Contains(t, answer, "Go, Python, Docker", "why 模板应引用前3个技能")

	answer = FallbackAnswer("What is your greatest strength?", doc)
	assert.Contains(t, answer, "Go, Python, Docker, Kubernetes, PostgreSQL", "strength 模板应引用前5个技能")

	// "why" 在声明顺序里先于 "goal"，同时命中时 why 生效
	answer = FallbackAnswer("Why does this goal matter to you?", doc)
	assert.Contains(t, answer, "excited about this opportunity")

	// 无命中时返回通用模板
	answer = FallbackAnswer("Anything else?", doc)
	assert.Equal(t, genericFallback, answer)
}

// TestDefaultValue 验证类型默认值的映射
func TestDefaultValue(t *testing.T) {
	doc := sampleDoc()

	assert.Equal(t, "john@example.com", DefaultValue(types.FormField{Type: "email"}, doc))
	assert.Equal(t, "555-123-4567", DefaultValue(types.FormField{Type: "tel"}, doc))
	assert.Equal(t, "John Smith", DefaultValue(types.FormField{Type: "text", Name: "first_name"}, doc))
	assert.Empty(t, DefaultValue(types.FormField{Type: "text", Name: "website"}, doc))
}

// TestResolveDirectTier 验证直接回答优先，不触发模型调用
func TestResolveDirectTier(t *testing.T) {
	mock := &MockLLMModel{mockResponse: "should not be used"}
	r := NewFieldResolver(NewLLMAnswerGenerator(mock))

	field := types.FormField{Type: "text", Label: "Email", Selector: "#email"}
	res := r.Resolve(context.Background(), field, sampleDoc(), "")

	assert.Equal(t, types.SourceDirect, res.Source)
	assert.Equal(t, "john@example.com", res.Value)
	assert.Equal(t, "#email", res.Selector)
	assert.Zero(t, mock.CallCount, "直接回答命中时不应调用模型")
}

// TestResolveGeneratedTier 验证开放问题走生成路径
func TestResolveGeneratedTier(t *testing.T) {
	mock := &MockLLMModel{mockResponse: "  A thoughtful generated answer.  "}
	r := NewFieldResolver(NewLLMAnswerGenerator(mock))

	field := types.FormField{Type: "textarea", Label: "Describe your ideal role", Selector: "#desc"}
	res := r.Resolve(context.Background(), field, sampleDoc(), "")

	assert.Equal(t, types.SourceGenerated, res.Source)
	assert.Equal(t, "A thoughtful generated answer.", res.Value, "生成结果应去除首尾空白")
	assert.Equal(t, 1, mock.CallCount)

	// 提示词应包含简历中的关键事实
	require.Len(t, mock.lastMessages, 2)
	assert.Equal(t, answerSystemPrompt, mock.lastMessages[0].Content)
	prompt := mock.lastMessages[1].Content
	assert.Contains(t, prompt, "John Smith")
	assert.Contains(t, prompt, "Senior Software Engineer at Acme Corp (2019 - 2022)")
	assert.Contains(t, prompt, "Describe your ideal role")
}

// TestResolveFallbackOnGenerationFailure 验证模型失败时降级到模板回答
func TestResolveFallbackOnGenerationFailure(t *testing.T) {
	mock := &MockLLMModel{Err: errors.New("invalid api key")}
	gen := NewLLMAnswerGenerator(mock, WithRetry(0, time.Millisecond))
	r := NewFieldResolver(gen)

	field := types.FormField{Type: "textarea", Label: "Why do you want to join us?", Selector: "#why"}
	res := r.Resolve(context.Background(), field, sampleDoc(), "")

	assert.Equal(t, types.SourceFallback, res.Source)
	assert.Contains(t, res.Value, "excited about this opportunity")
}

// TestResolveDefaultTier 验证普通短问题无直接回答时取类型默认值
func TestResolveDefaultTier(t *testing.T) {
	mock := &MockLLMModel{}
	r := NewFieldResolver(NewLLMAnswerGenerator(mock))

	field := types.FormField{Type: "tel", Label: "Mobile", Selector: "#mobile"}
	res := r.Resolve(context.Background(), field, sampleDoc(), "")

	assert.Equal(t, types.SourceDefault, res.Source)
	assert.Equal(t, "555-123-4567", res.Value)
	assert.Zero(t, mock.CallCount)

	// 任何层都给不出值时标记为跳过
	field = types.FormField{Type: "text", Label: "Referral Code", Selector: "#ref"}
	res = r.Resolve(context.Background(), field, sampleDoc(), "")
	assert.Equal(t, types.SourceSkipped, res.Source)
	assert.Empty(t, res.Value)
}

// fakeAnswerCache 内存实现的回答缓存，用于测试
type fakeAnswerCache struct {
	data map[string]string
	sets int
}

func (c *fakeAnswerCache) GetCachedAnswer(ctx context.Context, key string) (string, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return "", nil
}

func (c *fakeAnswerCache) SetCachedAnswer(ctx context.Context, key string, answer string, ttl time.Duration) error {
	c.data[key] = answer
	c.sets++
	return nil
}

// TestResolveAnswerCache 验证生成结果写入缓存且重复问题不再调用模型
func TestResolveAnswerCache(t *testing.T) {
	mock := &MockLLMModel{mockResponse: "Cached answer."}
	cache := &fakeAnswerCache{data: make(map[string]string)}
	r := NewFieldResolver(NewLLMAnswerGenerator(mock), WithAnswerCache(cache, time.Hour))

	field := types.FormField{Type: "textarea", Label: "Describe yourself", Selector: "#bio"}
	doc := sampleDoc()

	res := r.Resolve(context.Background(), field, doc, "")
	assert.Equal(t, "Cached answer.", res.Value)
	assert.Equal(t, 1, mock.CallCount)
	assert.Equal(t, 1, cache.sets)

	// 第二次解析同一问题应命中缓存
	res = r.Resolve(context.Background(), field, doc, "")
	assert.Equal(t, types.SourceGenerated, res.Source)
	assert.Equal(t, "Cached answer.", res.Value)
	assert.Equal(t, 1, mock.CallCount, "缓存命中时不应再次调用模型")
}
