// Package main is the entry point for the gssdash CLI.
package main

import "gss-dashboard/internal/cmd"

// @title GSS Dashboard API
// @version 1.0
// @description Interactive dashboard over the 2018 General Social Survey.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	cmd.Execute()
}
