package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"autofill-go/internal/config"
	"autofill-go/internal/logger"
	"autofill-go/internal/processor"
	"autofill-go/internal/storage"
	"autofill-go/internal/storage/models"
	"autofill-go/internal/types"
)

// FillHandler 表单填充处理器
// 从已解析的简历快照构建文档，逐字段解析填充值并落审计记录
type FillHandler struct {
	cfg             *config.Config
	storage         *storage.Storage
	processorModule *processor.AutofillProcessor
}

// NewFillHandler 创建一个新的表单填充处理器
func NewFillHandler(
	cfg *config.Config,
	storage *storage.Storage,
	processorModule *processor.AutofillProcessor,
) *FillHandler {
	return &FillHandler{
		cfg:             cfg,
		storage:         storage,
		processorModule: processorModule,
	}
}

// FillFormRequest 表单填充请求
type FillFormRequest struct {
	SubmissionUUID string            `json:"submission_uuid"`
	TargetURL      string            `json:"target_url"`
	ExtraContext   string            `json:"extra_context"`
	Fields         []types.FormField `json:"fields"`
}

// FillFormResponse 表单填充响应
type FillFormResponse struct {
	SessionUUID string            `json:"session_uuid,omitempty"`
	Report      *types.FillReport `json:"report"`
}

// Validate 校验填充请求的必填项
func (r *FillFormRequest) Validate() error {
	if r.SubmissionUUID == "" {
		return fmt.Errorf("submission_uuid 不能为空")
	}
	if len(r.Fields) == 0 {
		return fmt.Errorf("fields 不能为空")
	}
	return nil
}

// HandleFillForm 处理表单填充请求
func (h *FillHandler) HandleFillForm(ctx context.Context, req *FillFormRequest) (*FillFormResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doc, err := h.loadResumeDocument(ctx, req.SubmissionUUID)
	if err != nil {
		return nil, err
	}

	// 附加上下文优先用请求里的；没有时尝试拿缓存的简历原文垫底
	extraContext := req.ExtraContext
	if extraContext == "" && h.storage.Redis != nil {
		if rawText, err := h.storage.Redis.GetResumeRawText(ctx, req.SubmissionUUID); err == nil {
			extraContext = rawText
		}
	}

	report := h.processorModule.FillForm(ctx, doc, req.Fields, extraContext)

	resp := &FillFormResponse{Report: report}

	// 审计落库失败不影响填充结果的返回
	sessionUUID, err := h.processorModule.PersistFillReport(ctx, req.SubmissionUUID, req.TargetURL, report)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("submission_uuid", req.SubmissionUUID).
			Msg("持久化填充会话失败")
	} else {
		resp.SessionUUID = sessionUUID
	}

	return resp, nil
}

// loadResumeDocument 从数据库快照恢复结构化简历文档
func (h *FillHandler) loadResumeDocument(ctx context.Context, submissionUUID string) (*types.ResumeDocument, error) {
	submission, err := h.storage.MySQL.GetResumeSubmission(ctx, submissionUUID)
	if err != nil {
		return nil, err
	}

	if submission.ProcessingStatus != models.StatusParsed {
		return nil, fmt.Errorf("简历 %s 尚未解析完成，当前状态: %s", submissionUUID, submission.ProcessingStatus)
	}
	if len(submission.StructuredDataJSON) == 0 {
		return nil, fmt.Errorf("简历 %s 缺少结构化数据", submissionUUID)
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(submission.StructuredDataJSON, &doc); err != nil {
		return nil, fmt.Errorf("反序列化简历结构化数据失败: %w", err)
	}
	return &doc, nil
}
