package main

// General API documentation for swaggo. The served document is registered
// in internal/httpapi/swagger.go.
//
// @title           mlactions API
// @version         1.0
// @description     HTTP API for hosting ML actions: one-time setup and per-request invocation.
//
// @contact.name   mlactions maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
