// Command gamerec 是游戏推荐服务的命令行入口。
//
// Usage:
//
//	gamerec serve      [-config path]              启动 HTTP 服务
//	gamerec import     -file games.json [-config]  把元数据 JSON 导入 sqlite 目录
//	gamerec recommend  -owned 730:1200,570:60      本地离线推荐（调试用）
package main

import (
	"fmt"
	"os"
)

const usage = `gamerec - hybrid game recommender

Usage:
  gamerec <command> [flags]

Commands:
  serve       Run the HTTP API
  import      Import a Steam metadata JSON file into the sqlite catalog
  recommend   Score a local owned list against the catalog and print the result

Environment:
  GAMEREC_CONFIG                     Path to the YAML config file
  GAMEREC_STEAM__API_KEY             Steam Web API key
  GAMEREC_<SECTION>__<KEY>           Override any config key

Run 'gamerec <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	os.Args = os.Args[1:]

	var err error
	switch cmd {
	case "serve":
		err = runServe()
	case "import":
		err = runImport()
	case "recommend":
		err = runRecommend()
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "gamerec: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "gamerec %s: %v\n", cmd, err)
		os.Exit(1)
	}
}
