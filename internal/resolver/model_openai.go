package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"autofill-go/internal/logger"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// OpenAIChatModel 通过OpenAI兼容接口实现 model.ToolCallingChatModel
// 只用于问答生成，不绑定工具
type OpenAIChatModel struct {
	apiKey      string
	modelName   string
	baseURL     string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// OpenAIModelOption OpenAIChatModel配置选项
type OpenAIModelOption func(*OpenAIChatModel)

// WithTemperature 设置采样温度
func WithTemperature(t float64) OpenAIModelOption {
	return func(m *OpenAIChatModel) {
		m.temperature = t
	}
}

// WithMaxTokens 设置最大生成token数
func WithMaxTokens(n int) OpenAIModelOption {
	return func(m *OpenAIChatModel) {
		m.maxTokens = n
	}
}

// WithHTTPClient 替换HTTP客户端，测试时可注入
func WithHTTPClient(c *http.Client) OpenAIModelOption {
	return func(m *OpenAIChatModel) {
		m.httpClient = c
	}
}

// NewOpenAIChatModel 创建一个OpenAI兼容的聊天模型客户端
func NewOpenAIChatModel(apiKey, modelName, baseURL string, opts ...OpenAIModelOption) (*OpenAIChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}

	mn := modelName
	if strings.TrimSpace(mn) == "" {
		mn = defaultOpenAIModel
	}

	url := strings.TrimRight(baseURL, "/")
	if strings.TrimSpace(url) == "" {
		url = defaultOpenAIBaseURL
	}

	m := &OpenAIChatModel{
		apiKey:      apiKey,
		modelName:   mn,
		baseURL:     url,
		temperature: 0.7,
		maxTokens:   500,
		httpClient:  &http.Client{Timeout: 90 * time.Second},
	}
	for _, opt := range opts {
		opt(m)
	}

	logger.Info().Str("base_url", m.baseURL).Str("model", m.modelName).Msg("初始化OpenAI兼容聊天模型客户端")
	return m, nil
}

type chatCompletionRequest struct {
	Model       string            `json:"model"`
	Messages    []*schema.Message `json:"messages"`
	Temperature float64           `json:"temperature,omitempty"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
}

type chatCompletionChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatCompletionResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []chatCompletionChoice `json:"choices"`
}

// Generate 实现 model.ChatModel 接口
func (m *OpenAIChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	for _, opt := range options {
		_ = opt
	}

	reqPayload := chatCompletionRequest{
		Model:       m.modelName,
		Messages:    messages,
		Temperature: m.temperature,
		MaxTokens:   m.maxTokens,
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API 请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(bodyBytes, &resp); err != nil {
		return nil, fmt.Errorf("反序列化 API 响应失败: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("从 API 收到空选项: %s", string(bodyBytes))
	}

	apiMessage := resp.Choices[0].Message
	content := ""
	if apiMessage.Content != nil {
		content = *apiMessage.Content
	}

	result := &schema.Message{
		Role:    schema.RoleType(apiMessage.Role),
		Content: content,
	}
	if result.Role == "" {
		result.Role = schema.Assistant
	}

	return result, nil
}

// Stream 实现 model.ChatModel 接口，问答生成不需要流式输出
func (m *OpenAIChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("OpenAIChatModel 的 Stream 方法未实现")
}

// WithTools 满足 model.ToolCallingChatModel 接口
// 答案生成不使用工具，直接返回自身
func (m *OpenAIChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

var _ model.ToolCallingChatModel = (*OpenAIChatModel)(nil)
