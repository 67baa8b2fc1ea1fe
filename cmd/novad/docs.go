package main

// General API documentation for swaggo. Run `swag init -g cmd/novad/docs.go`
// to regenerate the docs package.
//
// @title           novad API
// @version         1.0
// @description     HTTP API for local model lifecycle management and generation.
//
// @contact.name   novad maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
