package frontend

import "embed"

const viewsPattern = "views/*.html"

//go:embed views
var templateFS embed.FS

//go:embed views/icon.svg views/placeholder.svg
var assetsFS embed.FS

//go:embed static
var staticFS embed.FS
