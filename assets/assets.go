// Package assets embeds the web client sources.
package assets

import _ "embed"

// IndexTemplate is the HTML page template rendered by the page package.
//
//go:embed index.html.tpl
var IndexTemplate string

// Style is the page stylesheet.
//
//go:embed style.css
var Style string

// Script builds the Leaflet map on the client.
//
//go:embed script.js
var Script string

// Favicon is the site icon.
//
//go:embed favicon.svg
var Favicon string
