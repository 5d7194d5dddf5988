// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - KeyValueStore: Durable storage for the metrics and dashboard state
//   - ConfigStore: Application configuration
//   - Slicer: Splits oversized input into paragraph-bounded slices
//   - Exporter: Renders an analysis to a file format
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Chat completions. Without it, analysis, chat and query are disabled.
//   - DocumentIntelligence: OCR and layout. Without it, PDFs and images cannot be analysed.
//   - BlobStore: Upload storage. Without it, uploads are rejected.
//   - Throttler: Paces slice submissions. Without it, slices are sent back to back.
//   - OperationRecorder: Telemetry. Without it, nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
