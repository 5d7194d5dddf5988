// Package normalisers provides text extractors for document formats that are
// neither plain text nor handled by document intelligence. Each extractor
// knows how to turn one format into readable text.
package normalisers
