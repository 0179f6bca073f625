// Package http provides the request and response surface for stockroom
// handlers.
//
// # Request
//
// Request wraps *http.Request with input helpers:
//
//	req := gohttp.NewRequest(r)
//
//	var payload struct {
//	    Name string `json:"name"`
//	}
//	if err := req.Bind(&payload); err != nil { ... }
//
//	id    := req.RouteParam("id")
//	all   := req.RouteParams()
//	body  := req.Body()              // re-readable
//	user  := req.AuthUser()          // X-Auth-User
//	token := req.AuthToken()         // X-Auth-Token
//
// # Respond
//
// Every handler result goes through one envelope:
//
//	gohttp.Respond(w, gohttp.Spec{Payload: items})                  // 200 JSON
//	gohttp.Respond(w, gohttp.Spec{Status: 201, Payload: created})   // 201 JSON
//	gohttp.Respond(w, gohttp.Spec{Mode: gohttp.ModeHTML, Payload: page})
//	gohttp.Respond(w, gohttp.Spec{Mode: gohttp.ModeStream, Stream: f})
//
// Raw mode requires a header map and Stream mode requires a reader; their
// absence is a UsageError that the dispatcher turns into a 500 envelope.
//
// An asynchronously produced response is forwarded through the same path:
//
//	out := make(chan gohttp.Outcome, 1)
//	go func() { out <- gohttp.Outcome{Spec: gohttp.Spec{Payload: report}} }()
//	return gohttp.RespondFuture(w, out)
//
// # Errors
//
// Handlers return *StatusError values built with BadRequestf, NotFoundf,
// Unauthorizedf or Internalf; the dispatcher writes the matching
// {"message": "..."} envelope with the carried status code.
package http
