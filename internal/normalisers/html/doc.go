// Package html extracts readable text from HTML documents, stripping tags,
// scripts and styles and decoding entities.
package html
