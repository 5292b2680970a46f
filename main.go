/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "hooknotify/cmd"

func main() {
	cmd.Execute()
}
