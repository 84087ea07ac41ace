// Package env resolves {{variable}} references in declaration files.
//
// A reference names either a declared variable, {{token}}, or an
// environment variable, {{$API_TOKEN}}. Variables can come from the
// declaration itself or from a .env file. Single-brace {name} URL
// template tokens are left untouched.
package env
