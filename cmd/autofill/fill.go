package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"autofill-go/internal/config"
	"autofill-go/internal/processor"
	"autofill-go/internal/types"
)

// 定义填充命令的命令行参数
var (
	fillFieldsFile = flag.String("fill-fields", "", "表单字段JSON文件路径 (必填)")
	fillParsedFile = flag.String("fill-parsed", "", "已解析的结构化简历JSON文件，为空时从 -resume 现场解析")
	fillContext    = flag.String("fill-context", "", "附加上下文，拼进回答生成的提示")
	fillReportFile = flag.String("fill-output", "fill_report.json", "填充报告输出文件")
)

// 处理离线表单填充命令
func handleFillCommand() {
	if *fillFieldsFile == "" {
		fmt.Println("错误: 必须提供表单字段文件。使用 -fill-fields 参数。")
		flag.Usage()
		os.Exit(1)
	}

	fieldsData, err := os.ReadFile(*fillFieldsFile)
	if err != nil {
		fmt.Printf("读取表单字段文件失败: %v\n", err)
		os.Exit(1)
	}
	var fields []types.FormField
	if err := json.Unmarshal(fieldsData, &fields); err != nil {
		fmt.Printf("解析表单字段JSON失败: %v\n", err)
		os.Exit(1)
	}
	if len(fields) == 0 {
		fmt.Println("错误: 表单字段文件为空。")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	proc, err := processor.CreateProcessorFromConfig(ctx, cfg, nil)
	if err != nil {
		fmt.Printf("创建处理器失败: %v\n", err)
		os.Exit(1)
	}

	doc, err := loadDocument(ctx, proc)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("开始填充 %d 个表单字段...\n", len(fields))
	report := proc.FillForm(ctx, doc, fields, *fillContext)

	fmt.Printf("填充完成: %d/%d 个字段有值, 成功=%v\n", report.FilledFields, report.TotalFields, report.Success)
	for _, r := range report.Resolutions {
		fmt.Printf("  [%s] %s => %s\n", r.Source, r.Question, r.Value)
	}
	for _, e := range report.Errors {
		fmt.Printf("  错误: %s\n", e)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Printf("序列化填充报告失败: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*fillReportFile, data, 0644); err != nil {
		fmt.Printf("写入填充报告失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("填充报告已保存到: %s\n", *fillReportFile)
}

// loadDocument 优先读已解析的JSON，否则从简历文件现场解析
func loadDocument(ctx context.Context, proc *processor.AutofillProcessor) (*types.ResumeDocument, error) {
	if *fillParsedFile != "" {
		data, err := os.ReadFile(*fillParsedFile)
		if err != nil {
			return nil, fmt.Errorf("读取结构化简历文件失败: %w", err)
		}
		var doc types.ResumeDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("解析结构化简历JSON失败: %w", err)
		}
		return &doc, nil
	}

	if *resumeFilePath == "" {
		return nil, fmt.Errorf("错误: 必须提供 -fill-parsed 或 -resume 参数之一")
	}
	doc, err := proc.ProcessResumeFile(ctx, *resumeFilePath)
	if err != nil {
		return nil, fmt.Errorf("解析简历失败: %w", err)
	}
	return doc, nil
}
