package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"autofill-go/internal/config"
	"autofill-go/internal/processor"
)

// 定义解析命令的命令行参数
var (
	parseOutputFile = flag.String("parse-output", "", "结构化结果输出文件，为空时使用配置中的 resume_parsing.output_file")
)

// 处理简历解析命令
func handleParseCommand() {
	if *resumeFilePath == "" {
		fmt.Println("错误: 必须提供简历文件路径。使用 -resume 参数。")
		flag.Usage()
		os.Exit(1)
	}

	absPath, err := filepath.Abs(*resumeFilePath)
	if err != nil {
		fmt.Printf("无法获取文件的绝对路径: %v\n", err)
		os.Exit(1)
	}
	if _, err := os.Stat(absPath); err != nil {
		fmt.Printf("无法访问文件 %s: %v\n", absPath, err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// 离线模式不挂存储，纯本地解析
	proc, err := processor.CreateProcessorFromConfig(ctx, cfg, nil)
	if err != nil {
		fmt.Printf("创建处理器失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("正在解析简历: %s\n", absPath)
	start := time.Now()

	doc, err := proc.ProcessResumeFile(ctx, absPath)
	if err != nil {
		fmt.Printf("解析简历失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("解析完成，耗时 %v\n", time.Since(start))
	fmt.Printf("  姓名: %s\n", doc.PersonalInfo.Name)
	fmt.Printf("  邮箱: %s\n", doc.PersonalInfo.Email)
	fmt.Printf("  技能数: %d\n", len(doc.Skills))
	fmt.Printf("  教育经历: %d 条\n", len(doc.Education))
	fmt.Printf("  工作经历: %d 条\n", len(doc.WorkExperience))

	outputFile := *parseOutputFile
	if outputFile == "" {
		outputFile = cfg.ResumeParsing.OutputFile
	}
	if outputFile == "" {
		outputFile = "parsed_resume.json"
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Printf("序列化结构化数据失败: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		fmt.Printf("写入输出文件失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("结构化结果已保存到: %s\n", outputFile)
}
