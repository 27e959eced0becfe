// Package web embeds the status page served at / and /static/.
package web

import "embed"

// Content holds index.html, app.js and styles.css.
//
//go:embed index.html app.js styles.css
var Content embed.FS
