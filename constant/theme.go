package constant

// ThemeMarker introduces a color declaration line in a GTK stylesheet.
const ThemeMarker = "@define-color"

// BaseURI is handed to the preview surface along with every document.
const BaseURI = "file://localhost/"
