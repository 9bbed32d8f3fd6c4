package main

import "github.com/woorton/clickhouse-cpp/cmd/chpkg/internal"

func main() {
	internal.Execute()
}
