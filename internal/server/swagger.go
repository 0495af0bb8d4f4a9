package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title WebAXS API
// @version 0.1
// @description Interactive documentation for the accessibility audit API surface.
// @contact.name WebAXS Maintainers
// @contact.url https://github.com/webaxs/webaxs
// @BasePath /
