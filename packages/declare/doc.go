// Package declare loads endpoint declarations from YAML files.
//
//	baseUrl: https://api.example.com
//	headers:
//	  Accept: application/json
//	endpoints:
//	  - name: user
//	    url: /users/{id}
//	    parameters:
//	      - name: id
//	        type: int
//	        required: true
//	    response:
//	      kind: json
//
// String values may reference {{variable}} or {{$ENV_VAR}}. Variables come
// from the variables block, an optional .env file and caller overrides, in
// increasing precedence.
//
// Relative URLs are joined to baseUrl. File-level headers apply to every
// endpoint; endpoint headers override them.
package declare
