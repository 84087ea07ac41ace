// Package quick offers one-call helpers for requests that need no
// declaration: GetHTML, GetBytes, GetMap and GetJSON, plus their POST
// counterparts. Each call builds a throwaway endpoint and runs it on a shared
// default engine, or on the one passed with WithEngine.
package quick
