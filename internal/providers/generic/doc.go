// Package generic is the shared extraction engine for reader-CMS manga sites.
// Every extractor is a pure function of a parsed goquery document and a
// declarative Selectors map; the site-specific packages only supply the map.
package generic
