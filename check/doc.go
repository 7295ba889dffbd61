// Package check compares two generic data files and reports where they differ.
package check
