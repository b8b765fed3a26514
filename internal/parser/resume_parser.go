package parser

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"autofill-go/internal/logger"
	"autofill-go/internal/types"
)

// RuleResumeParser 基于规则的简历结构化解析器
// 不依赖任何外部服务，对同一输入产出完全一致的结果
type RuleResumeParser struct {
	tracer trace.Tracer
}

// NewRuleResumeParser 创建规则解析器
func NewRuleResumeParser() *RuleResumeParser {
	return &RuleResumeParser{
		tracer: otel.Tracer("autofill-go/internal/parser"),
	}
}

// Parse 将简历纯文本解析为结构化文档
// 输入为空白时返回仅含 RawText 的空文档，不报错
func (p *RuleResumeParser) Parse(ctx context.Context, text string) (*types.ResumeDocument, error) {
	_, span := p.tracer.Start(ctx, "RuleResumeParser.Parse")
	defer span.End()

	doc := &types.ResumeDocument{RawText: text}
	if strings.TrimSpace(text) == "" {
		logger.Warn().Msg("简历文本为空，返回空文档")
		return doc, nil
	}

	doc.PersonalInfo = ExtractPersonalInfo(text)
	doc.Education = ExtractEducation(SectionLines(text, SectionEducation))
	doc.WorkExperience = ExtractWorkExperience(SectionLines(text, SectionExperience))
	doc.Skills = ExtractSkills(SectionLines(text, SectionSkills))
	doc.Projects = ExtractProjects(SectionLines(text, SectionProjects))

	span.SetAttributes(
		attribute.Int("resume.skills_count", len(doc.Skills)),
		attribute.Int("resume.education_count", len(doc.Education)),
		attribute.Int("resume.experience_count", len(doc.WorkExperience)),
		attribute.Int("resume.projects_count", len(doc.Projects)),
	)

	logger.Info().
		Str("name", doc.PersonalInfo.Name).
		Int("skills", len(doc.Skills)).
		Int("projects", len(doc.Projects)).
		Msg("简历解析完成")

	return doc, nil
}
