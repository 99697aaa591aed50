package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type PageRequest struct {
	Name       string `param:"name" validate:"required"`
	Tab        string `query:"tab" default:"overview" validate:"oneof=overview tables images"`
	ShowImages string `query:"images" default:"true" validate:"oneof=true false"`
}

type DownloadRequest struct {
	Name   string `param:"name" validate:"required"`
	Role   string `param:"role" validate:"oneof=history forecast merged"`
	Format string `param:"format" default:"csv"`
}

type ImageRequest struct {
	Name  string `param:"name" validate:"required"`
	Index int    `param:"index" validate:"gte=0"`
}

type UploadRequest struct {
	Name string `param:"name" validate:"required"`
	Role string `form:"role" validate:"required,oneof=history forecast"`
}

type DashboardRequest struct {
	Name string `param:"name" validate:"required"`
}
