// Package web embeds the landing page and its static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed views/index.html public
var assets embed.FS

// IndexHTML returns the landing page served on "/".
func IndexHTML() ([]byte, error) {
	return assets.ReadFile("views/index.html")
}

// Public returns the files served from the site root, e.g. /style.css.
func Public() fs.FS {
	sub, err := fs.Sub(assets, "public")
	if err != nil {
		// Only fails for an invalid literal path.
		panic(err)
	}
	return sub
}
