package main

import "github.com/sergeysova/xcodebuild-action/cmd"

func main() {
	cmd.Execute()
}
