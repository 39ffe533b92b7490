// Package main is the entry point for the lbt application
package main

import (
	"github.com/forecastlab/lbt/cmd"
)

func main() {
	cmd.Execute()
}
