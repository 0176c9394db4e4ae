/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/mclantax/content-pipeline/cmd"

// @title           Content Pipeline API
// @version         1.0.0
// @description     Generates branded short-form videos from trending topics and serves the review dashboard API
// @contact.name    API Support
// @contact.url     https://github.com/mclantax/content-pipeline
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
