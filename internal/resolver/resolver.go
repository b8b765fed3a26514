package resolver

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"autofill-go/internal/logger"
	"autofill-go/internal/storage"
	"autofill-go/internal/types"
)

// Generator 开放式问题的回答生成接口
type Generator interface {
	GenerateAnswer(ctx context.Context, question string, doc *types.ResumeDocument, extraContext string) (string, error)
}

// AnswerCache 生成回答的缓存接口，键为问题与简历内容的摘要
type AnswerCache interface {
	GetCachedAnswer(ctx context.Context, key string) (string, error)
	SetCachedAnswer(ctx context.Context, key string, answer string, ttl time.Duration) error
}

// FieldResolver 为单个表单字段决定填充值
// 解析顺序：直接回答 → 开放问题生成（失败降级到模板） → 类型默认值
type FieldResolver struct {
	generator Generator
	cache     AnswerCache
	cacheTTL  time.Duration
	tracer    trace.Tracer
}

// ResolverOption 解析器的配置选项
type ResolverOption func(*FieldResolver)

// WithAnswerCache 配置生成回答的缓存，避免同一问题重复调用模型
func WithAnswerCache(cache AnswerCache, ttl time.Duration) ResolverOption {
	return func(r *FieldResolver) {
		r.cache = cache
		r.cacheTTL = ttl
	}
}

// NewFieldResolver 创建字段解析器
func NewFieldResolver(generator Generator, options ...ResolverOption) *FieldResolver {
	r := &FieldResolver{
		generator: generator,
		cacheTTL:  24 * time.Hour,
		tracer:    otel.Tracer("autofill-go/internal/resolver"),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Resolve 为字段计算填充值及其来源
// extraContext 会原样传给生成器，可携带职位描述等补充信息
func (r *FieldResolver) Resolve(ctx context.Context, field types.FormField, doc *types.ResumeDocument, extraContext string) types.FieldResolution {
	ctx, span := r.tracer.Start(ctx, "FieldResolver.Resolve")
	defer span.End()

	question := field.Question()
	resolution := types.FieldResolution{
		Selector: field.Selector,
		Question: question,
	}

	// 第一层：简历既有事实的直接回答
	if answer := DirectAnswer(question, doc); answer != "" {
		resolution.Value = answer
		resolution.Source = types.SourceDirect
		span.SetAttributes(attribute.String("resolution.source", string(resolution.Source)))
		return resolution
	}

	// 第二层：开放式问题走生成路径
	if IsAbstractQuestion(question, field.Type) {
		answer, source := r.generate(ctx, question, doc, extraContext)
		resolution.Value = answer
		resolution.Source = source
		span.SetAttributes(attribute.String("resolution.source", string(resolution.Source)))
		return resolution
	}

	// 第三层：按字段类型给默认值
	resolution.Value = DefaultValue(field, doc)
	resolution.Source = types.SourceDefault
	if resolution.Value == "" {
		resolution.Source = types.SourceSkipped
	}
	span.SetAttributes(attribute.String("resolution.source", string(resolution.Source)))
	return resolution
}

// generate 带缓存的生成调用，失败时降级到模板回答
func (r *FieldResolver) generate(ctx context.Context, question string, doc *types.ResumeDocument, extraContext string) (string, types.ResolutionSource) {
	cacheKey := answerCacheKey(question, doc)

	if r.cache != nil {
		cached, err := r.cache.GetCachedAnswer(ctx, cacheKey)
		if err == nil && cached != "" {
			logger.Debug().Str("question", truncate(question, 50)).Msg("命中回答缓存")
			return cached, types.SourceGenerated
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Warn().Err(err).Msg("读取回答缓存失败")
		}
	}

	if r.generator == nil {
		return FallbackAnswer(question, doc), types.SourceFallback
	}

	answer, err := r.generator.GenerateAnswer(ctx, question, doc, extraContext)
	if err != nil {
		logger.Error().Err(err).Str("question", truncate(question, 50)).Msg("生成回答失败，使用模板回答")
		return FallbackAnswer(question, doc), types.SourceFallback
	}

	if r.cache != nil {
		if err := r.cache.SetCachedAnswer(ctx, cacheKey, answer, r.cacheTTL); err != nil {
			logger.Warn().Err(err).Msg("写入回答缓存失败")
		}
	}
	return answer, types.SourceGenerated
}

// answerCacheKey 以问题和简历原文的摘要作为缓存键
// 同一份简历、同一个问题的生成结果可以安全复用
func answerCacheKey(question string, doc *types.ResumeDocument) string {
	sum := md5.Sum([]byte(question + "\x00" + doc.RawText))
	return hex.EncodeToString(sum[:])
}
