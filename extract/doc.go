// Package extract renders generic data files as text: header reports and
// tab-separated dataset dumps, optionally compressed.
package extract
