// Package sse streams run progress events to HTTP clients over Server-Sent
// Events. The Hub fans engine events out to subscribed clients; NewRunSink
// bridges an engine event stream into the hub. The engine itself never
// depends on this package — it is one transport for the progress sink
// contract.
package sse
