package main

import (
	"flag"
	"fmt"
	"os"
)

// 命令行参数定义
var (
	resumeFilePath = flag.String("resume", "", "简历文件路径 (.pdf/.docx/.doc)")
	configPath     = flag.String("config", "", "配置文件路径，为空时按默认位置查找")
	command        = flag.String("cmd", "parse", "执行的命令: parse=解析简历为结构化JSON, fill=离线填充表单字段")
)

func main() {
	flag.Parse()

	switch *command {
	case "parse":
		handleParseCommand()
	case "fill":
		handleFillCommand()
	default:
		fmt.Printf("错误: 未知命令 '%s'。支持的命令: parse, fill\n", *command)
		flag.Usage()
		os.Exit(1)
	}
}
