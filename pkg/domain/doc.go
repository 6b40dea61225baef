// Package domain contains the frontend-facing types produced by this
// backend. These are the only structures the visualization frontend depends
// on; everything engine-shaped lives in pkg/olca and never crosses the HTTP
// boundary directly.
package domain
