// Package client holds the device-side edges of the StockSentry app:
// the remote API abstraction (Client, implemented over HTTP by HTTPClient)
// and the local SQLite database bootstrap.
//
// The reconciliation services never talk HTTP or SQL directly; they consume
// the Client interface and the repository interfaces, which keeps every
// policy decision testable against fakes.
package client
