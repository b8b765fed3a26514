package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"autofill-go/internal/logger"
	"autofill-go/internal/types"
	"autofill-go/pkg/ratelimit"
)

const answerSystemPrompt = "You are a professional resume assistant helping to fill job application forms. Provide concise, professional answers based on the candidate's resume data."

// LLMAnswerGenerator 调用大模型为开放式问题生成个性化回答
type LLMAnswerGenerator struct {
	llmModel    model.ToolCallingChatModel
	rateLimiter *ratelimit.TokenBucket
	tracer      trace.Tracer

	maxRetries  int
	retryDelay  time.Duration
	callTimeout time.Duration
}

// GeneratorOption 生成器的配置选项
type GeneratorOption func(*LLMAnswerGenerator)

// WithRateLimiter 配置QPM限流器，避免触发上游模型的限流
func WithRateLimiter(limiter *ratelimit.TokenBucket) GeneratorOption {
	return func(g *LLMAnswerGenerator) {
		g.rateLimiter = limiter
	}
}

// WithRetry 配置重试次数和初始退避时间
func WithRetry(maxRetries int, delay time.Duration) GeneratorOption {
	return func(g *LLMAnswerGenerator) {
		g.maxRetries = maxRetries
		g.retryDelay = delay
	}
}

// WithCallTimeout 配置单次模型调用的超时时间
func WithCallTimeout(d time.Duration) GeneratorOption {
	return func(g *LLMAnswerGenerator) {
		g.callTimeout = d
	}
}

// NewLLMAnswerGenerator 创建生成器
func NewLLMAnswerGenerator(llmModel model.ToolCallingChatModel, options ...GeneratorOption) *LLMAnswerGenerator {
	g := &LLMAnswerGenerator{
		llmModel:    llmModel,
		tracer:      otel.Tracer("autofill-go/internal/resolver"),
		maxRetries:  2,
		retryDelay:  2 * time.Second,
		callTimeout: 60 * time.Second,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// GenerateAnswer 为问题生成回答
// 失败时返回错误，由调用方决定是否降级到模板回答
func (g *LLMAnswerGenerator) GenerateAnswer(ctx context.Context, question string, doc *types.ResumeDocument, extraContext string) (string, error) {
	ctx, span := g.tracer.Start(ctx, "LLMAnswerGenerator.GenerateAnswer")
	defer span.End()
	span.SetAttributes(attribute.Int("question.length", len(question)))

	// 限流：等待令牌可用
	if g.rateLimiter != nil {
		if err := g.rateLimiter.Wait(ctx); err != nil {
			span.SetStatus(codes.Error, "rate limit wait failed")
			return "", fmt.Errorf("等待限流令牌失败: %w", err)
		}
	}

	messages := []*einoschema.Message{
		{Role: einoschema.System, Content: answerSystemPrompt},
		{Role: einoschema.User, Content: buildAnswerPrompt(question, doc, extraContext)},
	}

	var response *einoschema.Message
	var err error
	retryDelay := g.retryDelay

	for retry := 0; retry <= g.maxRetries; retry++ {
		if retry > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("上下文已取消: %w", ctx.Err())
			case <-time.After(retryDelay):
				retryDelay *= 2
				logger.Warn().Int("retry", retry).Msg("重试生成回答")
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		response, err = g.llmModel.Generate(callCtx, messages)
		cancel()

		if err == nil {
			break
		}

		if !isRetryableError(err) || retry >= g.maxRetries {
			span.RecordError(err)
			span.SetStatus(codes.Error, "LLM generate failed")
			return "", fmt.Errorf("LLM Generate failed: %w", err)
		}
	}

	answer := strings.TrimSpace(response.Content)
	logger.Info().Str("question", truncate(question, 50)).Int("answer_chars", len(answer)).Msg("生成回答完成")
	return answer, nil
}

// buildAnswerPrompt 把简历信息和问题拼装成提示词
func buildAnswerPrompt(question string, doc *types.ResumeDocument, extraContext string) string {
	var b strings.Builder

	b.WriteString("\nBased on the following resume information, please provide a professional and tailored answer to the question below.\n\n")
	b.WriteString("CANDIDATE INFORMATION:\n")
	fmt.Fprintf(&b, "Name: %s\n", orNA(doc.PersonalInfo.Name))
	fmt.Fprintf(&b, "Email: %s\n", orNA(doc.PersonalInfo.Email))

	b.WriteString("\nEDUCATION:\n")
	for _, edu := range doc.Education {
		fmt.Fprintf(&b, "- %s from %s (%s)\n", orNA(edu.Degree), orNA(edu.Institution), orNA(edu.Year))
	}

	b.WriteString("\nWORK EXPERIENCE:\n")
	for _, exp := range doc.WorkExperience {
		fmt.Fprintf(&b, "- %s at %s (%s)\n", orNA(exp.Position), orNA(exp.Company), orNA(exp.Duration))
	}

	// 技能最多取前10个，项目最多取前3个，控制提示词长度
	fmt.Fprintf(&b, "\nSKILLS:\n%s\n", strings.Join(doc.TopSkills(10), ", "))

	if len(doc.Projects) > 0 {
		b.WriteString("\nPROJECTS:\n")
		projects := doc.Projects
		if len(projects) > 3 {
			projects = projects[:3]
		}
		for _, proj := range projects {
			fmt.Fprintf(&b, "- %s: %s\n", orNA(proj.Name), orNA(proj.Description))
		}
	}

	if extraContext != "" {
		fmt.Fprintf(&b, "\nADDITIONAL CONTEXT:\n%s\n", extraContext)
	}

	fmt.Fprintf(&b, `
QUESTION TO ANSWER:
%s

INSTRUCTIONS:
1. Provide a professional, concise answer (150-300 words)
2. Use specific examples from the candidate's experience when relevant
3. Maintain a positive and confident tone
4. Focus on how the candidate's background relates to the question
5. Do not make up information not present in the resume
`, question)

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// isRetryableError 判断错误是否应该重试
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host")
}
